package bsptests

import (
	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"
)

// DoCompareWorkspaceTargets checks that workspace/buildTargets returns exactly the expected
// targets, in the same order.
func DoCompareWorkspaceTargets(t *T, session *client.Session, expected bsp.WorkspaceBuildTargetsResult) {
	actual := RequireSuccess(t, requestServer(t, session).WorkspaceBuildTargets(requestContext()))
	requireMatch(t, bsp.MethodWorkspaceTargets, expected, actual)
}

// DoCompareSources requests the sources of all workspace targets and checks the result.
func DoCompareSources(t *T, session *client.Session, expected bsp.SourcesResult) {
	ids := bsp.TargetIDs(workspaceTargets(t, session))
	actual := RequireSuccess(t, requestServer(t, session).Sources(requestContext(), bsp.SourcesParams{Targets: ids}))
	requireMatch(t, bsp.MethodSources, expected, actual)
}

// DoCompareDependencySources requests the dependency sources of all workspace targets and checks
// the result.
func DoCompareDependencySources(t *T, session *client.Session, expected bsp.DependencySourcesResult) {
	ids := bsp.TargetIDs(workspaceTargets(t, session))
	actual := RequireSuccess(t, requestServer(t, session).DependencySources(requestContext(),
		bsp.DependencySourcesParams{Targets: ids}))
	requireMatch(t, bsp.MethodDependencySources, expected, actual)
}

// DoCompareResources requests the resources of all workspace targets and checks the result.
func DoCompareResources(t *T, session *client.Session, expected bsp.ResourcesResult) {
	ids := bsp.TargetIDs(workspaceTargets(t, session))
	actual := RequireSuccess(t, requestServer(t, session).Resources(requestContext(), bsp.ResourcesParams{Targets: ids}))
	requireMatch(t, bsp.MethodResources, expected, actual)
}

// DoCompareInverseSources asks which targets own each of the given documents.
func DoCompareInverseSources(t *T, session *client.Session, expected []InverseSourcesFixture) {
	server := requestServer(t, session)
	for _, fixture := range expected {
		actual := RequireSuccess(t, server.InverseSources(requestContext(), bsp.InverseSourcesParams{
			TextDocument: bsp.TextDocumentIdentifier{URI: fixture.Document},
		}))
		requireMatch(t, bsp.MethodInverseSources+" of "+fixture.Document,
			bsp.InverseSourcesResult{Targets: fixture.Targets}, actual)
	}
}
