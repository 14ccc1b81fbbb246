// Package mockserver is a small, configurable build server used to exercise the test harness.
//
// It holds a fixed workspace description in memory and answers requests from it. Several kinds
// of misbehavior can be switched on in its Config (failing or never answering particular
// methods, answering after shutdown, returning a malformed protocol version) so that the
// harness's own failure detection can be tested against it.
package mockserver
