package bsptests

import (
	"errors"
	"strings"
)

// FailureKind classifies why a conformance check failed.
type FailureKind string

const (
	// ProtocolViolation means the server sent something that the protocol does not allow.
	ProtocolViolation FailureKind = "protocol violation"

	// ShutdownNotHonored means the server still answered requests after build/exit.
	ShutdownNotHonored FailureKind = "shutdown not honored"

	// Timeout means the server did not respond within the configured time.
	Timeout FailureKind = "timeout"

	// UnexpectedSuccess means a request that should have been rejected was answered normally.
	UnexpectedSuccess FailureKind = "unexpected success"

	// UnexpectedFailure means a request that should have succeeded returned an error.
	UnexpectedFailure FailureKind = "unexpected failure"

	// ResultMismatch means a response was not equal to the expected value.
	ResultMismatch FailureKind = "result mismatch"
)

// AssertionFailure is the error for a failed conformance check.
type AssertionFailure struct {
	Kind FailureKind

	// Method is the JSON-RPC method involved, if any.
	Method string

	// Message describes the failure in more detail.
	Message string

	// Err is the underlying error, such as the error response from the server.
	Err error

	// Expected and Actual are set for a ResultMismatch.
	Expected interface{}
	Actual   interface{}
}

func (f *AssertionFailure) Error() string {
	var b strings.Builder
	if f.Method != "" {
		b.WriteString(f.Method)
		b.WriteString(": ")
	}
	b.WriteString(string(f.Kind))
	if f.Message != "" {
		b.WriteString(": ")
		b.WriteString(f.Message)
	}
	if f.Err != nil {
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

func (f *AssertionFailure) Unwrap() error {
	return f.Err
}

// IsFailureKind returns true if err is, or wraps, an AssertionFailure of the given kind.
func IsFailureKind(err error, kind FailureKind) bool {
	var f *AssertionFailure
	return errors.As(err, &f) && f.Kind == kind
}
