package bsptests

import (
	"github.com/buildserver/bsp-contract-tests/client"
	"github.com/buildserver/bsp-contract-tests/framework"
)

// RunTestSuite runs a batch of scenarios against a session that has not yet been initialized. If
// no scenarios are named, every available scenario runs, in canonical order.
func RunTestSuite(
	session *client.Session,
	opts TestClientOptions,
	scenarios []ScenarioID,
) (framework.Results, error) {
	c := NewTestClient(session, opts)
	if len(scenarios) == 0 {
		scenarios = c.Scenarios()
	}
	return c.RunScenarios(scenarios)
}
