package bsptests

import (
	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"
)

// DoTargetCapabilities checks that the capability flags of each target tell the truth: compile,
// run and test requests must succeed for targets that declare the capability and be rejected for
// targets that do not.
func DoTargetCapabilities(t *T, session *client.Session) {
	targets := workspaceTargets(t, session)
	server := requestServer(t, session)

	compilable, notCompilable := PartitionTargets(targets, CanCompile)
	if len(compilable) > 0 {
		RequireSuccess(t, server.Compile(requestContext(), compileParams(bsp.TargetIDs(compilable))))
	}
	if len(notCompilable) > 0 {
		RequireFailure(t, server.Compile(requestContext(), compileParams(bsp.TargetIDs(notCompilable))))
	}

	runnable, notRunnable := PartitionTargets(targets, CanRun)
	for _, target := range runnable {
		RequireSuccess(t, server.Run(requestContext(), runParams(target.ID)))
	}
	for _, target := range notRunnable {
		RequireFailure(t, server.Run(requestContext(), runParams(target.ID)))
	}

	testable, notTestable := PartitionTargets(targets, CanTest)
	if len(testable) > 0 {
		RequireSuccess(t, server.Test(requestContext(), testParams(bsp.TargetIDs(testable))))
	}
	if len(notTestable) > 0 {
		RequireFailure(t, server.Test(requestContext(), testParams(bsp.TargetIDs(notTestable))))
	}
}
