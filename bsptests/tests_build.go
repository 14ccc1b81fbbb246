package bsptests

import (
	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
)

// DoCompileSuccessfully compiles every target that can be compiled, and expects status OK.
func DoCompileSuccessfully(t *T, session *client.Session) {
	CompileTargets(t, session, capableTargets(t, session, CanCompile), true)
}

// DoCompileUnsuccessfully compiles every target in the workspace, and expects a status other
// than OK. It is meant for workspaces that are known not to build.
func DoCompileUnsuccessfully(t *T, session *client.Session) {
	CompileTargets(t, session, bsp.TargetIDs(workspaceTargets(t, session)), false)
}

// CompileTargets sends one buildTarget/compile request for the given targets and checks whether
// the status is OK.
func CompileTargets(t *T, session *client.Session, targets []bsp.BuildTargetIdentifier, expectOK bool) {
	result := RequireSuccess(t, requestServer(t, session).Compile(requestContext(), compileParams(targets)))
	checkStatus(t, bsp.MethodCompile, result.StatusCode, expectOK)
}

// DoRunSuccessfully runs every target that can be run, one request per target, and expects each
// status to be OK.
func DoRunSuccessfully(t *T, session *client.Session) {
	RunTargets(t, session, capableTargets(t, session, CanRun), true)
}

// DoRunUnsuccessfully runs every target in the workspace, and expects every status to be other
// than OK.
func DoRunUnsuccessfully(t *T, session *client.Session) {
	RunTargets(t, session, bsp.TargetIDs(workspaceTargets(t, session)), false)
}

// RunTargets sends a buildTarget/run request for each of the given targets in turn.
func RunTargets(t *T, session *client.Session, targets []bsp.BuildTargetIdentifier, expectOK bool) {
	server := requestServer(t, session)
	for _, target := range targets {
		result := RequireSuccess(t, server.Run(requestContext(), runParams(target)))
		checkStatus(t, bsp.MethodRun+" of "+target.URI, result.StatusCode, expectOK)
	}
}

// DoTestSuccessfully tests every target that can be tested, and expects status OK.
func DoTestSuccessfully(t *T, session *client.Session) {
	TestTargets(t, session, capableTargets(t, session, CanTest), true)
}

// DoTestUnsuccessfully tests every target in the workspace, and expects a status other than OK.
func DoTestUnsuccessfully(t *T, session *client.Session) {
	TestTargets(t, session, bsp.TargetIDs(workspaceTargets(t, session)), false)
}

// TestTargets sends one buildTarget/test request for the given targets.
func TestTargets(t *T, session *client.Session, targets []bsp.BuildTargetIdentifier, expectOK bool) {
	result := RequireSuccess(t, requestServer(t, session).Test(requestContext(), testParams(targets)))
	checkStatus(t, bsp.MethodTest, result.StatusCode, expectOK)
}

// DoCleanCacheSuccessfully cleans the cache of every target, and expects cleaned to be true.
func DoCleanCacheSuccessfully(t *T, session *client.Session) {
	CleanCache(t, session, bsp.TargetIDs(workspaceTargets(t, session)), true)
}

// DoCleanCacheUnsuccessfully cleans the cache of every target, and expects cleaned to be false.
func DoCleanCacheUnsuccessfully(t *T, session *client.Session) {
	CleanCache(t, session, bsp.TargetIDs(workspaceTargets(t, session)), false)
}

// CleanCache sends one buildTarget/cleanCache request for the given targets.
func CleanCache(t *T, session *client.Session, targets []bsp.BuildTargetIdentifier, expectCleaned bool) {
	result := RequireSuccess(t, requestServer(t, session).CleanCache(requestContext(),
		bsp.CleanCacheParams{Targets: targets}))
	if result.Message.IsDefined() {
		t.Debug("clean cache message: %s", result.Message.StringValue())
	}
	assert.Equal(t, expectCleaned, result.Cleaned, "value of \"cleaned\" in %s response", bsp.MethodCleanCache)
}

func capableTargets(t *T, session *client.Session, predicate TargetPredicate) []bsp.BuildTargetIdentifier {
	matching, _ := PartitionTargets(workspaceTargets(t, session), predicate)
	return bsp.TargetIDs(matching)
}

func checkStatus(t *T, what string, status bsp.StatusCode, expectOK bool) {
	if expectOK {
		assert.Equal(t, bsp.StatusOK, status, "status of %s", what)
	} else {
		assert.NotEqual(t, bsp.StatusOK, status, "status of %s", what)
	}
}

func newOriginID() ldvalue.OptionalString {
	return ldvalue.NewOptionalString(uuid.NewString())
}

func compileParams(targets []bsp.BuildTargetIdentifier) bsp.CompileParams {
	return bsp.CompileParams{Targets: targets, OriginID: newOriginID()}
}

func runParams(target bsp.BuildTargetIdentifier) bsp.RunParams {
	return bsp.RunParams{Target: target, OriginID: newOriginID()}
}

func testParams(targets []bsp.BuildTargetIdentifier) bsp.TestParams {
	return bsp.TestParams{Targets: targets, OriginID: newOriginID()}
}
