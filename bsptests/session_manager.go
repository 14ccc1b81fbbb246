package bsptests

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"

	"golang.org/x/mod/semver"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultLanguageIDs are the languages the harness claims to support during the handshake, unless
// configured otherwise.
var DefaultLanguageIDs = []string{"java", "scala", "kotlin", "go", "python", "rust", "cpp"}

// ClientInfo is how the harness describes itself in build/initialize.
type ClientInfo struct {
	DisplayName string
	Version     string
	BspVersion  string
	LanguageIDs []string
}

// DefaultClientInfo returns the ClientInfo used when none is configured.
func DefaultClientInfo() ClientInfo {
	return ClientInfo{
		DisplayName: "bsp-contract-tests",
		Version:     "1.0.0",
		BspVersion:  bsp.ProtocolVersion,
		LanguageIDs: DefaultLanguageIDs,
	}
}

// InitializeParams builds the build/initialize parameters for a session.
func InitializeParams(session *client.Session, info ClientInfo) bsp.InitializeBuildParams {
	languages := info.LanguageIDs
	if languages == nil {
		languages = []string{}
	}
	params := bsp.InitializeBuildParams{
		DisplayName:  info.DisplayName,
		Version:      info.Version,
		BspVersion:   info.BspVersion,
		RootURI:      fileURI(session.WorkspaceRoot),
		Capabilities: bsp.BuildClientCapabilities{LanguageIDs: languages},
	}
	if session.CompilerOutputDir != "" {
		params.Data = ldvalue.ObjectBuild().
			Set("clientClassesRootDir", ldvalue.String(fileURI(session.CompilerOutputDir))).
			Build()
	}
	return params
}

// Initialize performs the handshake: build/initialize, a check of the response, and the
// build/initialized notification. On success the server's capabilities are stored on the session
// and the session is Initialized.
//
// Calling this for a session that is not Uninitialized is a programming error and panics.
func Initialize(t *T, session *client.Session, info ClientInfo) bsp.InitializeBuildResult {
	if st := session.State(); st != client.StateUninitialized {
		panic(fmt.Sprintf("cannot initialize a build server session that is %s", st))
	}
	server := session.Server.WithLogger(t.DebugLogger())
	session.Notifications.SetLogger(t.DebugLogger())

	result := RequireSuccess(t, server.Initialize(requestContext(), InitializeParams(session, info)))
	t.Debug("server %q version %q, BSP version %q, capabilities: %v",
		result.DisplayName, result.Version, result.BspVersion, result.Capabilities.Names())
	if !IsValidBspVersion(result.BspVersion) {
		t.fail(&AssertionFailure{
			Kind:    ProtocolViolation,
			Method:  bsp.MethodBuildInitialize,
			Message: fmt.Sprintf("bspVersion %q is not a valid version", result.BspVersion),
		})
	}
	if err := server.Initialized(requestContext()); err != nil {
		t.fail(&AssertionFailure{Kind: UnexpectedFailure, Method: bsp.MethodBuildInitialized, Err: err})
	}
	session.SetCapabilities(result.Capabilities)
	session.SetState(client.StateInitialized)
	return result
}

// Shutdown ends the session: build/shutdown, which must succeed, then build/exit, then a probe
// request to check that the server is no longer answering. The session is Terminated and closed
// afterward, whatever the outcome.
//
// Calling this for a session that is not Initialized is a programming error and panics.
func Shutdown(t *T, session *client.Session) {
	if st := session.State(); st != client.StateInitialized {
		panic(fmt.Sprintf("cannot shut down a build server session that is %s", st))
	}
	server := session.Server.WithLogger(t.DebugLogger())
	session.Notifications.SetLogger(t.DebugLogger())
	defer closeSession(t, session)

	RequireSuccess(t, server.Shutdown(requestContext()))
	session.SetState(client.StateShuttingDown)

	if err := server.Exit(requestContext()); err != nil {
		// the server may legitimately have closed the connection already
		t.Debug("sending %s failed: %s", bsp.MethodBuildExit, err)
	}

	probeTimeout := shutdownProbeTimeout
	if t.timeout < probeTimeout {
		probeTimeout = t.timeout
	}
	_, err := Await(server.WorkspaceBuildTargets(requestContext()), MustFail, probeTimeout)
	switch {
	case IsFailureKind(err, UnexpectedSuccess):
		t.context.Error(&AssertionFailure{
			Kind:    ShutdownNotHonored,
			Method:  bsp.MethodWorkspaceTargets,
			Message: "server still answered requests after " + bsp.MethodBuildExit,
		})
	case IsFailureKind(err, Timeout):
		t.Debug("server did not answer %s after exit", bsp.MethodWorkspaceTargets)
	}
}

// IsValidBspVersion returns true for a bare version number such as "2" or "2.1", or a semantic
// version such as "2.1.0" or "2.1.0-M4".
func IsValidBspVersion(version string) bool {
	return version != "" && version[0] != 'v' && semver.IsValid("v"+version)
}

// closeSession releases the connection. Errors are only debug output, since by this point the
// server has had its chance to misbehave.
func closeSession(t *T, session *client.Session) {
	session.SetState(client.StateTerminated)
	if err := session.Close(); err != nil {
		t.Debug("error while closing connection: %s", err)
	}
}

// requestServer returns the request stub for a scenario, with traffic and notifications logged to
// the scenario's debug output.
//
// Issuing a request on a session that is not Initialized is a programming error and panics.
func requestServer(t *T, session *client.Session) *client.Server {
	if st := session.State(); st != client.StateInitialized {
		panic(fmt.Sprintf("request issued to a build server session that is %s", st))
	}
	session.Notifications.SetLogger(t.DebugLogger())
	return session.Server.WithLogger(t.DebugLogger())
}

func fileURI(path string) string {
	if path == "" {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
