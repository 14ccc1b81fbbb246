package bsp

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// BuildTargetIdentifier uniquely identifies a build target within one workspace snapshot.
type BuildTargetIdentifier struct {
	URI string `json:"uri"`
}

func (id BuildTargetIdentifier) String() string { return id.URI }

// BuildTargetCapabilities are the flags a server reports for each target.
type BuildTargetCapabilities struct {
	CanCompile bool `json:"canCompile"`
	CanTest    bool `json:"canTest"`
	CanRun     bool `json:"canRun"`
	CanDebug   bool `json:"canDebug"`
}

// BuildTarget is one buildable unit of a workspace, as returned by workspace/buildTargets.
type BuildTarget struct {
	ID            BuildTargetIdentifier   `json:"id"`
	DisplayName   ldvalue.OptionalString  `json:"displayName"`
	BaseDirectory ldvalue.OptionalString  `json:"baseDirectory"`
	Tags          []string                `json:"tags"`
	LanguageIDs   []string                `json:"languageIds"`
	Dependencies  []BuildTargetIdentifier `json:"dependencies"`
	Capabilities  BuildTargetCapabilities `json:"capabilities"`
	DataKind      string                  `json:"dataKind,omitempty"`
	Data          ldvalue.Value           `json:"data"`
}

// Standard values for BuildTarget.Tags.
const (
	TagApplication     = "application"
	TagLibrary         = "library"
	TagTest            = "test"
	TagIntegrationTest = "integration-test"
	TagBenchmark       = "benchmark"
	TagNoIDE           = "no-ide"
	TagManual          = "manual"
)

// WorkspaceBuildTargetsResult is the response to workspace/buildTargets.
type WorkspaceBuildTargetsResult struct {
	Targets []BuildTarget `json:"targets"`
}

// TargetIDs returns the identifiers of the given targets, in the same order.
func TargetIDs(targets []BuildTarget) []BuildTargetIdentifier {
	ret := make([]BuildTargetIdentifier, 0, len(targets))
	for _, t := range targets {
		ret = append(ret, t.ID)
	}
	return ret
}
