package bsptests

import (
	"time"

	"github.com/buildserver/bsp-contract-tests/framework"
)

// DefaultTimeout is how long the harness waits for any one response from the server.
const DefaultTimeout = time.Second * 30

// shutdownProbeTimeout bounds the request that checks whether the server stopped answering after
// build/exit. Not getting a response is the expected outcome, so there is no point waiting long.
const shutdownProbeTimeout = time.Second * 5

// T represents a test or subtest in the conformance suite.
//
// It implements the same basic functionality as Go's testing.T, on top of our lower-level
// framework package, so that you can pass a *T to the assert and require packages. It also
// carries the per-request timeout that the Request Runner uses.
//
// A T does not own the build server session; scenarios receive the *client.Session explicitly.
type T struct {
	context *framework.Context
	timeout time.Duration
}

func newT(context *framework.Context, timeout time.Duration) *T {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &T{context: context, timeout: timeout}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Failed returns true if the test has recorded a failure.
func (t *T) Failed() bool {
	return t.context.Failed()
}

// Helper exists for compatibility with testify.
func (t *T) Helper() {}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newT(c, t.timeout))
	})
}

// Skip stops the test immediately and marks it as skipped.
func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// DebugLogger returns the test's debug log.
func (t *T) DebugLogger() framework.Logger {
	return t.context.DebugLogger()
}

// Timeout returns the limit on how long to wait for each response.
func (t *T) Timeout() time.Duration {
	return t.timeout
}

// fail records err, keeping its type so that results can be inspected with errors.As, and stops
// the test.
func (t *T) fail(err error) {
	t.context.Error(err)
	t.context.FailNow()
}
