package bsptests

import (
	"testing"
	"time"

	"github.com/buildserver/bsp-contract-tests/client"
	"github.com/buildserver/bsp-contract-tests/framework"
	"github.com/buildserver/bsp-contract-tests/mockserver"
)

const testTimeout = time.Second * 5

func startMockServer(t *testing.T, config mockserver.Config) (*mockserver.Server, *client.Session) {
	server := mockserver.New(config, nil)
	session := server.Connect(client.SessionOptions{WorkspaceRoot: "/workspace"})
	t.Cleanup(func() { _ = session.Close() })
	return server, session
}

// runTest runs an action as a single named test and returns the results.
func runTest(timeout time.Duration, action func(t *T)) framework.Results {
	return framework.Run(nil, nil, func(c *framework.Context) {
		newT(c, timeout).Run("test", action)
	})
}

func firstError(results framework.Results) error {
	for _, f := range results.Failures {
		if len(f.Errors) > 0 {
			return f.Errors[0]
		}
	}
	return nil
}

func testNames(results framework.Results) []string {
	var ret []string
	for _, r := range results.Tests {
		ret = append(ret, r.TestID.String())
	}
	return ret
}

func initializedSession(t *testing.T, config mockserver.Config) (*mockserver.Server, *client.Session) {
	server, session := startMockServer(t, config)
	results := runTest(testTimeout, func(t *T) { Initialize(t, session, DefaultClientInfo()) })
	if !results.OK() {
		t.Fatalf("initialize failed: %s", firstError(results))
	}
	return server, session
}
