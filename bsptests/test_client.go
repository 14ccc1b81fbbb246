package bsptests

import (
	"fmt"
	"time"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"
	"github.com/buildserver/bsp-contract-tests/framework"
)

// Names of the lifecycle steps that bracket the scenarios. They are always run, whatever the filter.
const (
	lifecycleInitialize = "initialize"
	lifecycleShutdown   = "shutdown"
)

// TestClientOptions configures a TestClient. All fields are optional.
type TestClientOptions struct {
	// Timeout is the limit for each response; the default is DefaultTimeout.
	Timeout time.Duration

	// Filter selects which scenarios to run.
	Filter framework.Filter

	// TestLogger receives progress and failures.
	TestLogger framework.TestLogger

	// ClientInfo is how the harness describes itself; the default is DefaultClientInfo().
	ClientInfo *ClientInfo

	// Fixtures enable the comparison scenarios.
	Fixtures Fixtures
}

// CompareOptions are options for the single-scenario comparison entry points.
type CompareOptions struct {
	// Bracket says whether the comparison is surrounded by its own initialize and shutdown. If
	// false, the caller must already have called Initialize, and is responsible for Shutdown.
	Bracket bool
}

// TestClient runs conformance scenarios against one build server session.
//
// The session goes through its lifecycle once. Each of the Test* entry points initializes it,
// runs one scenario and shuts it down; RunScenarios does the same around a batch of scenarios.
// Once any of those has been called, the TestClient cannot be used again.
type TestClient struct {
	session    *client.Session
	timeout    time.Duration
	filter     framework.Filter
	testLogger framework.TestLogger
	clientInfo ClientInfo
	registry   map[ScenarioID]Scenario
}

// NewTestClient creates a TestClient for a session that has not yet been initialized.
func NewTestClient(session *client.Session, opts TestClientOptions) *TestClient {
	info := DefaultClientInfo()
	if opts.ClientInfo != nil {
		info = *opts.ClientInfo
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TestClient{
		session:    session,
		timeout:    timeout,
		filter:     opts.Filter,
		testLogger: opts.TestLogger,
		clientInfo: info,
		registry:   Registry(opts.Fixtures),
	}
}

// Session returns the session under test.
func (c *TestClient) Session() *client.Session {
	return c.session
}

// Scenarios returns the IDs of the scenarios available to RunScenarios, in canonical order.
func (c *TestClient) Scenarios() []ScenarioID {
	return AllScenarios(c.registry)
}

// RunScenarios initializes the session, runs the given scenarios in order, and shuts the session
// down. Scenarios share the session, so a scenario can see the effects of earlier ones.
func (c *TestClient) RunScenarios(ids []ScenarioID) (framework.Results, error) {
	scenarios := make([]Scenario, 0, len(ids))
	for _, id := range ids {
		s, ok := c.registry[id]
		if !ok {
			return framework.Results{}, fmt.Errorf("scenario %q is unknown or has no fixture", id)
		}
		scenarios = append(scenarios, s)
	}
	return c.bracket(func(t *T) {
		for i, id := range ids {
			c.runScenario(t, string(id), scenarios[i])
		}
	}), nil
}

// Initialize runs only the handshake. It is for callers who want to bracket comparisons
// themselves; see CompareOptions.
func (c *TestClient) Initialize() framework.Results {
	return c.run(func(t *T) {
		t.Run(lifecycleInitialize, func(t *T) { Initialize(t, c.session, c.clientInfo) })
	})
}

// Shutdown runs only the shutdown sequence, for a session previously set up with Initialize.
func (c *TestClient) Shutdown() framework.Results {
	return c.run(func(t *T) {
		t.Run(lifecycleShutdown, func(t *T) { Shutdown(t, c.session) })
	})
}

func (c *TestClient) TestResolveProject() framework.Results {
	return c.wrapTest(ScenarioResolveProject, DoResolveProject)
}

func (c *TestClient) TestTargetCapabilities() framework.Results {
	return c.wrapTest(ScenarioTargetCapabilities, DoTargetCapabilities)
}

// TestCompileSuccessfully compiles the given targets, or all compilable targets if none are
// given, and expects status OK.
func (c *TestClient) TestCompileSuccessfully(targets ...bsp.BuildTargetIdentifier) framework.Results {
	if len(targets) == 0 {
		return c.wrapTest(ScenarioCompileSuccessfully, DoCompileSuccessfully)
	}
	return c.wrapTest(ScenarioCompileSuccessfully, func(t *T, s *client.Session) { CompileTargets(t, s, targets, true) })
}

// TestCompileUnsuccessfully compiles the given targets, or all targets if none are given, and
// expects a status other than OK.
func (c *TestClient) TestCompileUnsuccessfully(targets ...bsp.BuildTargetIdentifier) framework.Results {
	if len(targets) == 0 {
		return c.wrapTest(ScenarioCompileUnsuccessfully, DoCompileUnsuccessfully)
	}
	return c.wrapTest(ScenarioCompileUnsuccessfully, func(t *T, s *client.Session) { CompileTargets(t, s, targets, false) })
}

func (c *TestClient) TestRunSuccessfully(targets ...bsp.BuildTargetIdentifier) framework.Results {
	if len(targets) == 0 {
		return c.wrapTest(ScenarioRunSuccessfully, DoRunSuccessfully)
	}
	return c.wrapTest(ScenarioRunSuccessfully, func(t *T, s *client.Session) { RunTargets(t, s, targets, true) })
}

func (c *TestClient) TestRunUnsuccessfully(targets ...bsp.BuildTargetIdentifier) framework.Results {
	if len(targets) == 0 {
		return c.wrapTest(ScenarioRunUnsuccessfully, DoRunUnsuccessfully)
	}
	return c.wrapTest(ScenarioRunUnsuccessfully, func(t *T, s *client.Session) { RunTargets(t, s, targets, false) })
}

func (c *TestClient) TestTestSuccessfully(targets ...bsp.BuildTargetIdentifier) framework.Results {
	if len(targets) == 0 {
		return c.wrapTest(ScenarioTestSuccessfully, DoTestSuccessfully)
	}
	return c.wrapTest(ScenarioTestSuccessfully, func(t *T, s *client.Session) { TestTargets(t, s, targets, true) })
}

func (c *TestClient) TestTestUnsuccessfully(targets ...bsp.BuildTargetIdentifier) framework.Results {
	if len(targets) == 0 {
		return c.wrapTest(ScenarioTestUnsuccessfully, DoTestUnsuccessfully)
	}
	return c.wrapTest(ScenarioTestUnsuccessfully, func(t *T, s *client.Session) { TestTargets(t, s, targets, false) })
}

func (c *TestClient) TestCleanCacheSuccessfully() framework.Results {
	return c.wrapTest(ScenarioCleanCacheSuccessfully, DoCleanCacheSuccessfully)
}

func (c *TestClient) TestCleanCacheUnsuccessfully() framework.Results {
	return c.wrapTest(ScenarioCleanCacheUnsuccessfully, DoCleanCacheUnsuccessfully)
}

// CompareWorkspaceTargets checks workspace/buildTargets against expected.
func (c *TestClient) CompareWorkspaceTargets(expected bsp.WorkspaceBuildTargetsResult, opts CompareOptions) framework.Results {
	return c.compare(opts, ScenarioCompareWorkspaceTargets, func(t *T, s *client.Session) {
		DoCompareWorkspaceTargets(t, s, expected)
	})
}

func (c *TestClient) CompareSources(expected bsp.SourcesResult, opts CompareOptions) framework.Results {
	return c.compare(opts, ScenarioCompareSources, func(t *T, s *client.Session) {
		DoCompareSources(t, s, expected)
	})
}

func (c *TestClient) CompareDependencySources(expected bsp.DependencySourcesResult, opts CompareOptions) framework.Results {
	return c.compare(opts, ScenarioCompareDependencySources, func(t *T, s *client.Session) {
		DoCompareDependencySources(t, s, expected)
	})
}

func (c *TestClient) CompareResources(expected bsp.ResourcesResult, opts CompareOptions) framework.Results {
	return c.compare(opts, ScenarioCompareResources, func(t *T, s *client.Session) {
		DoCompareResources(t, s, expected)
	})
}

func (c *TestClient) CompareInverseSources(expected []InverseSourcesFixture, opts CompareOptions) framework.Results {
	return c.compare(opts, ScenarioCompareInverseSources, func(t *T, s *client.Session) {
		DoCompareInverseSources(t, s, expected)
	})
}

func (c *TestClient) compare(opts CompareOptions, id ScenarioID, scenario Scenario) framework.Results {
	if opts.Bracket {
		return c.wrapTest(id, scenario)
	}
	return c.run(func(t *T) {
		c.runScenario(t, string(id), scenario)
	})
}

func (c *TestClient) wrapTest(id ScenarioID, scenario Scenario) framework.Results {
	return c.bracket(func(t *T) {
		c.runScenario(t, string(id), scenario)
	})
}

// bracket runs the body between initialize and shutdown. Shutdown is attempted whenever the
// handshake succeeded, even if the body failed; the connection is closed in any case.
func (c *TestClient) bracket(body func(t *T)) framework.Results {
	return c.run(func(t *T) {
		t.context.Defer(func() { closeSession(t, c.session) })
		t.Run(lifecycleInitialize, func(t *T) { Initialize(t, c.session, c.clientInfo) })
		body(t)
		if c.session.State() == client.StateInitialized {
			t.Run(lifecycleShutdown, func(t *T) { Shutdown(t, c.session) })
		}
	})
}

func (c *TestClient) runScenario(t *T, name string, scenario Scenario) {
	t.Run(name, func(t *T) {
		if st := c.session.State(); st != client.StateInitialized {
			t.Skip(fmt.Sprintf("session is %s", st))
		}
		scenario(t, c.session)
	})
}

func (c *TestClient) run(action func(t *T)) framework.Results {
	return framework.Run(c.filterWithLifecycle, c.testLogger, func(fc *framework.Context) {
		action(newT(fc, c.timeout))
	})
}

func (c *TestClient) filterWithLifecycle(id framework.TestID) bool {
	if len(id.Path) == 1 && (id.Path[0] == lifecycleInitialize || id.Path[0] == lifecycleShutdown) {
		return true
	}
	return c.filter == nil || c.filter(id)
}
