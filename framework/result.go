package framework

import (
	"fmt"
	"io"
	"strings"
)

// Results is the outcome of a test run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of one test.
type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

// OK returns true if no test failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Skipped returns the number of tests that were skipped.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

// TestID identifies a test by the names of the test and all of its parents.
type TestID struct {
	Path []string
}

// Plus returns the identifier of a subtest.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of the run, listing every failed test with its errors.
func PrintResults(w io.Writer, results Results) {
	if results.OK() {
		fmt.Fprintf(w, "%s (%d tests, %d skipped)\n", passColor.Sprint("All tests passed"),
			len(results.Tests), results.Skipped())
		return
	}
	fmt.Fprintf(w, "%s (%d of %d tests)\n", failColor.Sprint("FAILED TESTS"),
		len(results.Failures), len(results.Tests))
	for _, f := range results.Failures {
		name := f.TestID.String()
		if name == "" {
			name = "(setup)"
		}
		fmt.Fprintf(w, "* %s\n", name)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}
