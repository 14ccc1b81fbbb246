package bsptests

import (
	"github.com/buildserver/bsp-contract-tests/bsp"
)

// TargetPredicate selects build targets by some property.
type TargetPredicate func(bsp.BuildTarget) bool

// Predicates on the capability flags that a server reports for each target.
var (
	CanCompile TargetPredicate = func(t bsp.BuildTarget) bool { return t.Capabilities.CanCompile }
	CanRun     TargetPredicate = func(t bsp.BuildTarget) bool { return t.Capabilities.CanRun }
	CanTest    TargetPredicate = func(t bsp.BuildTarget) bool { return t.Capabilities.CanTest }
)

// PartitionTargets splits targets into those that satisfy the predicate and those that do not.
// Both outputs keep the input order, and every input target is in exactly one of them.
func PartitionTargets(targets []bsp.BuildTarget, predicate TargetPredicate) (matching, nonMatching []bsp.BuildTarget) {
	for _, t := range targets {
		if predicate(t) {
			matching = append(matching, t)
		} else {
			nonMatching = append(nonMatching, t)
		}
	}
	return matching, nonMatching
}
