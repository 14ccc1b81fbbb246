package bsptests

import (
	"testing"

	"github.com/buildserver/bsp-contract-tests/bsp"

	"github.com/stretchr/testify/assert"
)

func makeTarget(name string, caps bsp.BuildTargetCapabilities) bsp.BuildTarget {
	return bsp.BuildTarget{ID: bsp.BuildTargetIdentifier{URI: "file:///" + name}, Capabilities: caps}
}

func TestPartitionTargetsKeepsOrderAndCoversAllInputs(t *testing.T) {
	a := makeTarget("a", bsp.BuildTargetCapabilities{CanCompile: true})
	b := makeTarget("b", bsp.BuildTargetCapabilities{CanRun: true})
	c := makeTarget("c", bsp.BuildTargetCapabilities{CanCompile: true, CanTest: true})
	d := makeTarget("d", bsp.BuildTargetCapabilities{})

	matching, nonMatching := PartitionTargets([]bsp.BuildTarget{a, b, c, d}, CanCompile)
	assert.Equal(t, []bsp.BuildTarget{a, c}, matching)
	assert.Equal(t, []bsp.BuildTarget{b, d}, nonMatching)

	matching, nonMatching = PartitionTargets([]bsp.BuildTarget{a, b, c, d}, CanRun)
	assert.Equal(t, []bsp.BuildTarget{b}, matching)
	assert.Equal(t, []bsp.BuildTarget{a, c, d}, nonMatching)

	matching, nonMatching = PartitionTargets([]bsp.BuildTarget{a, b, c, d}, CanTest)
	assert.Equal(t, []bsp.BuildTarget{c}, matching)
	assert.Equal(t, []bsp.BuildTarget{a, b, d}, nonMatching)
}

func TestPartitionTargetsWithNoTargets(t *testing.T) {
	matching, nonMatching := PartitionTargets(nil, CanCompile)
	assert.Len(t, matching, 0)
	assert.Len(t, nonMatching, 0)
}
