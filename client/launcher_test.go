package client_test

import (
	"context"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"
	"github.com/buildserver/bsp-contract-tests/framework"
	"github.com/buildserver/bsp-contract-tests/mockserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// When this variable is set, the test binary acts as a build server on its standard input and
// output instead of running tests.
const helperProcessEnv = "BSP_CONTRACT_TESTS_HELPER_SERVER"

func TestMain(m *testing.M) {
	if os.Getenv(helperProcessEnv) == "1" {
		server := mockserver.New(mockserver.DefaultConfig(), log.New(os.Stderr, "", 0))
		server.Serve(context.Background(), mockserver.StdioStream(os.Stdin, os.Stdout))
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestValidateRequiresExistingWorkspace(t *testing.T) {
	opts := client.LaunchOptions{}
	assert.Error(t, opts.Validate())

	opts.WorkspaceRoot = filepath.Join(t.TempDir(), "missing")
	assert.Error(t, opts.Validate())

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	opts.WorkspaceRoot = file
	assert.Error(t, opts.Validate())
}

func TestValidateRejectsCommandWithTCPAddress(t *testing.T) {
	opts := client.LaunchOptions{WorkspaceRoot: t.TempDir(), Argv: []string{"x"}, TCPAddress: "localhost:1"}
	assert.Error(t, opts.Validate())
}

func TestValidateMakesPathsAbsolute(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, dir)
	require.NoError(t, err)

	opts := client.LaunchOptions{WorkspaceRoot: rel, CompilerOutputDir: "out"}
	require.NoError(t, opts.Validate())
	assert.Equal(t, dir, opts.WorkspaceRoot)
	assert.True(t, filepath.IsAbs(opts.CompilerOutputDir))
}

func TestLaunchWithoutConnectionFile(t *testing.T) {
	_, err := client.Launch(context.Background(), client.LaunchOptions{WorkspaceRoot: t.TempDir()})
	assert.ErrorIs(t, err, client.ErrNoConnectionFile)
}

func TestFailedLaunchReleasesFiles(t *testing.T) {
	openFiles := func() int {
		entries, err := os.ReadDir("/proc/self/fd")
		if err != nil {
			t.Skip("open files can't be counted on this platform")
		}
		return len(entries)
	}
	dir := t.TempDir()
	before := openFiles()
	for i := 0; i < 5; i++ {
		_, err := client.Launch(context.Background(), client.LaunchOptions{
			WorkspaceRoot: dir,
			Argv:          []string{filepath.Join(dir, "no-such-server")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not start build server")
	}
	assert.Equal(t, before, openFiles())
}

func TestFormatCommand(t *testing.T) {
	assert.Equal(t, "server --flag 'two words' ''", client.FormatCommand([]string{"server", "--flag", "two words", ""}))
}

func initializeParams(root string) bsp.InitializeBuildParams {
	return bsp.InitializeBuildParams{DisplayName: "test", Version: "1", BspVersion: bsp.ProtocolVersion, RootURI: "file://" + root}
}

func TestLaunchFromConnectionFile(t *testing.T) {
	t.Setenv(helperProcessEnv, "1")
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, client.ConnectionDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, client.ConnectionDir, "mock.json"),
		[]byte(`{"name":"mock","version":"1.0.0","bspVersion":"2.1.0","languages":["go"],"argv":["`+
			filepath.ToSlash(os.Args[0])+`"]}`), 0o600))

	var logger framework.CapturingLogger
	var startup strings.Builder
	session, err := client.Launch(context.Background(), client.LaunchOptions{
		WorkspaceRoot: root,
		StartupOutput: &startup,
		Logger:        &logger,
	})
	require.NoError(t, err)
	assert.Equal(t, "mock", session.Details.Name)
	assert.Contains(t, startup.String(), "Starting build server: ")

	result, err := session.Server.Initialize(context.Background(), initializeParams(root)).Result()
	require.NoError(t, err)
	assert.Equal(t, "mock", result.DisplayName)

	_, err = session.Server.Shutdown(context.Background()).Result()
	require.NoError(t, err)
	require.NoError(t, session.Server.Exit(context.Background()))
	<-session.Done()

	_, err = session.Server.WorkspaceBuildTargets(context.Background()).Result()
	assert.ErrorIs(t, err, client.ErrConnectionClosed)

	require.NoError(t, session.Close())
	var lines []string
	for _, m := range logger.Output() {
		lines = append(lines, m.Message)
	}
	assert.Contains(t, lines, "[server stderr] mock server received build/initialize")
}

func TestDial(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	server := mockserver.New(mockserver.DefaultConfig(), nil)
	served := make(chan struct{})
	go func() {
		defer close(served)
		conn, err := listener.Accept()
		if err == nil {
			server.Serve(context.Background(), conn)
		}
	}()

	root := t.TempDir()
	session, err := client.Launch(context.Background(), client.LaunchOptions{
		WorkspaceRoot: root,
		TCPAddress:    listener.Addr().String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "tcp://"+listener.Addr().String(), session.Details.Name)

	_, err = session.Server.Initialize(context.Background(), initializeParams(root)).Result()
	require.NoError(t, err)
	targets, err := session.Server.WorkspaceBuildTargets(context.Background()).Result()
	require.NoError(t, err)
	assert.Len(t, targets.Targets, 3)

	require.NoError(t, session.Close())
	<-served
}
