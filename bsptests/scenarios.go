package bsptests

import (
	"github.com/buildserver/bsp-contract-tests/client"
)

// ScenarioID names one of the conformance scenarios. The names are also the test names that
// appear in results and that --run and --skip filters match against.
type ScenarioID string

const (
	ScenarioResolveProject           ScenarioID = "resolve-project"
	ScenarioTargetCapabilities       ScenarioID = "target-capabilities"
	ScenarioCompileSuccessfully      ScenarioID = "compile-successfully"
	ScenarioCompileUnsuccessfully    ScenarioID = "compile-unsuccessfully"
	ScenarioRunSuccessfully          ScenarioID = "run-successfully"
	ScenarioRunUnsuccessfully        ScenarioID = "run-unsuccessfully"
	ScenarioTestSuccessfully         ScenarioID = "test-successfully"
	ScenarioTestUnsuccessfully       ScenarioID = "test-unsuccessfully"
	ScenarioCleanCacheSuccessfully   ScenarioID = "clean-cache-successfully"
	ScenarioCleanCacheUnsuccessfully ScenarioID = "clean-cache-unsuccessfully"
	ScenarioCompareWorkspaceTargets  ScenarioID = "compare-workspace-targets"
	ScenarioCompareSources           ScenarioID = "compare-sources"
	ScenarioCompareDependencySources ScenarioID = "compare-dependency-sources"
	ScenarioCompareResources         ScenarioID = "compare-resources"
	ScenarioCompareInverseSources    ScenarioID = "compare-inverse-sources"
)

// Scenario is the body of a conformance scenario. It expects an Initialized session, and leaves
// it Initialized.
type Scenario func(t *T, session *client.Session)

var canonicalOrder = []ScenarioID{
	ScenarioResolveProject,
	ScenarioTargetCapabilities,
	ScenarioCompileSuccessfully,
	ScenarioCompileUnsuccessfully,
	ScenarioRunSuccessfully,
	ScenarioRunUnsuccessfully,
	ScenarioTestSuccessfully,
	ScenarioTestUnsuccessfully,
	ScenarioCleanCacheSuccessfully,
	ScenarioCleanCacheUnsuccessfully,
	ScenarioCompareWorkspaceTargets,
	ScenarioCompareSources,
	ScenarioCompareDependencySources,
	ScenarioCompareResources,
	ScenarioCompareInverseSources,
}

// Registry maps every available scenario to its body. The comparison scenarios are only present
// if the corresponding fixture was supplied.
func Registry(fixtures Fixtures) map[ScenarioID]Scenario {
	r := map[ScenarioID]Scenario{
		ScenarioResolveProject:           DoResolveProject,
		ScenarioTargetCapabilities:       DoTargetCapabilities,
		ScenarioCompileSuccessfully:      DoCompileSuccessfully,
		ScenarioCompileUnsuccessfully:    DoCompileUnsuccessfully,
		ScenarioRunSuccessfully:          DoRunSuccessfully,
		ScenarioRunUnsuccessfully:        DoRunUnsuccessfully,
		ScenarioTestSuccessfully:         DoTestSuccessfully,
		ScenarioTestUnsuccessfully:       DoTestUnsuccessfully,
		ScenarioCleanCacheSuccessfully:   DoCleanCacheSuccessfully,
		ScenarioCleanCacheUnsuccessfully: DoCleanCacheUnsuccessfully,
	}
	if expected := fixtures.WorkspaceTargets; expected != nil {
		r[ScenarioCompareWorkspaceTargets] = func(t *T, s *client.Session) { DoCompareWorkspaceTargets(t, s, *expected) }
	}
	if expected := fixtures.Sources; expected != nil {
		r[ScenarioCompareSources] = func(t *T, s *client.Session) { DoCompareSources(t, s, *expected) }
	}
	if expected := fixtures.DependencySources; expected != nil {
		r[ScenarioCompareDependencySources] = func(t *T, s *client.Session) { DoCompareDependencySources(t, s, *expected) }
	}
	if expected := fixtures.Resources; expected != nil {
		r[ScenarioCompareResources] = func(t *T, s *client.Session) { DoCompareResources(t, s, *expected) }
	}
	if expected := fixtures.InverseSources; len(expected) > 0 {
		r[ScenarioCompareInverseSources] = func(t *T, s *client.Session) { DoCompareInverseSources(t, s, expected) }
	}
	return r
}

// AllScenarios returns the IDs of the scenarios in the registry, in canonical order.
func AllScenarios(registry map[ScenarioID]Scenario) []ScenarioID {
	var ret []ScenarioID
	for _, id := range canonicalOrder {
		if _, ok := registry[id]; ok {
			ret = append(ret, id)
		}
	}
	return ret
}

// KnownScenarios returns every scenario ID, whether or not it is available in a given run.
func KnownScenarios() []ScenarioID {
	return append([]ScenarioID(nil), canonicalOrder...)
}
