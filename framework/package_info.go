// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to any one protocol.
//
// The general model is:
//
// 1. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. A test fails and exits immediately by calling FailNow, which is
// what the require package does, so that testify assertions can be used against a Context.
//
// 2. Each test has its own debug logger whose output is captured and passed to the
// TestLogger when the test finishes, so that verbose output can be shown only for failures.
//
// 3. Tests are identified by a path of names, and can be selected or skipped by a Filter.
//
// The domain-specific code that knows what is being tested is responsible for providing
// a domain-specific test API on top of the test context.
package framework
