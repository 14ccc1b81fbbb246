package framework

// TestLogger receives progress events from the test tree: one TestStarted and one TestFinished
// per scenario or lifecycle step, with TestError for each failure in between. TestFinished carries
// the step's captured debug output, such as the JSON-RPC traffic and notifications.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

// nullTestLogger is used when a run is given no TestLogger.
type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
