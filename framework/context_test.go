package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(results []TestResult) []string {
	var ret []string
	for _, r := range results {
		ret = append(ret, r.TestID.String())
	}
	return ret
}

func TestRunRecordsSubtestResults(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("passes", func(c *Context) {})
		c.Run("fails", func(c *Context) {
			c.Errorf("first")
			c.Errorf("second")
		})
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) { c.FailNow() })
		})
	})

	assert.Equal(t, []string{"passes", "fails", "outer/inner", "outer"}, ids(results.Tests))
	assert.Equal(t, []string{"fails", "outer/inner"}, ids(results.Failures))
	assert.False(t, results.OK())
	require.Len(t, results.Failures[0].Errors, 2)
	assert.Equal(t, "first", results.Failures[0].Errors[0].Error())
	assert.Equal(t, "test failed with no failure message", results.Failures[1].Errors[0].Error())
}

func TestFailNowStopsTest(t *testing.T) {
	reachedEnd := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Errorf("oops")
			c.FailNow()
			reachedEnd = true
		})
	})
	assert.False(t, reachedEnd)
	assert.Len(t, results.Failures, 1)
}

func TestErrorKeepsOriginalError(t *testing.T) {
	myErr := errors.New("mine")
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) { c.Error(myErr) })
	})
	require.Len(t, results.Failures, 1)
	assert.Same(t, myErr, results.Failures[0].Errors[0])
}

func TestSkip(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.SkipWithReason("not today")
			c.Errorf("should not get here")
		})
	})
	assert.True(t, results.OK())
	assert.Equal(t, 1, results.Skipped())
}

func TestFilterExcludesTests(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^b"))
	ran := map[string]bool{}
	results := Run(filters.AsFilter, nil, func(c *Context) {
		for _, name := range []string{"a", "b", "c"} {
			name := name
			c.Run(name, func(c *Context) { ran[name] = true })
		}
	})
	assert.Equal(t, map[string]bool{"a": true, "c": true}, ran)
	assert.Equal(t, []string{"a", "c"}, ids(results.Tests))
}

func TestUnexpectedPanicIsFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) { panic("boom") })
		c.Run("b", func(c *Context) {})
	})
	assert.Equal(t, []string{"a"}, ids(results.Failures))
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
	assert.Len(t, results.Tests, 2)
}

func TestDeferredFunctionsRunInReverseOrderAfterFailure(t *testing.T) {
	var calls []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Defer(func() { calls = append(calls, "first") })
			c.Defer(func() { calls = append(calls, "second") })
			c.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, calls)
	assert.Len(t, results.Failures, 1)
}

func TestDeferredFunctionCanFailTest(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Defer(func() { c.Errorf("cleanup failed") })
		})
	})
	assert.Equal(t, []string{"a"}, ids(results.Failures))
}

func TestRootFailureIsRecorded(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Errorf("setup failed")
	})
	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "", results.Failures[0].TestID.String())
}

func TestDebugOutputIsPassedToLogger(t *testing.T) {
	logger := &recordingTestLogger{}
	Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Debug("hello %s", "there")
			c.DebugLogger().Printf("again")
		})
	})
	require.Len(t, logger.debugOutput, 1)
	var messages []string
	for _, m := range logger.debugOutput[0] {
		messages = append(messages, m.Message)
	}
	assert.Equal(t, []string{"hello there", "again"}, messages)
}

type recordingTestLogger struct {
	debugOutput []CapturedOutput
}

func (r *recordingTestLogger) TestStarted(TestID)         {}
func (r *recordingTestLogger) TestError(TestID, error)    {}
func (r *recordingTestLogger) TestSkipped(TestID, string) {}
func (r *recordingTestLogger) TestFinished(_ TestID, _ bool, output CapturedOutput) {
	r.debugOutput = append(r.debugOutput, output)
}
