package bsp

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// SourcesParams is the parameter of buildTarget/sources.
type SourcesParams struct {
	Targets []BuildTargetIdentifier `json:"targets"`
}

// SourceItemKind says whether a source item is a file or a directory.
type SourceItemKind int

const (
	SourceItemFile      SourceItemKind = 1
	SourceItemDirectory SourceItemKind = 2
)

// SourceItem is a single source file or directory of a target.
type SourceItem struct {
	URI       string         `json:"uri"`
	Kind      SourceItemKind `json:"kind,omitempty"`
	Generated bool           `json:"generated"`
}

// SourcesItem groups the sources of one target.
type SourcesItem struct {
	Target  BuildTargetIdentifier `json:"target"`
	Sources []SourceItem          `json:"sources"`
	Roots   []string              `json:"roots,omitempty"`
}

// SourcesResult is the response to buildTarget/sources.
type SourcesResult struct {
	Items []SourcesItem `json:"items"`
}

// DependencySourcesParams is the parameter of buildTarget/dependencySources.
type DependencySourcesParams struct {
	Targets []BuildTargetIdentifier `json:"targets"`
}

// DependencySourcesItem lists the dependency source archives or directories of one target.
type DependencySourcesItem struct {
	Target  BuildTargetIdentifier `json:"target"`
	Sources []string              `json:"sources"`
}

// DependencySourcesResult is the response to buildTarget/dependencySources.
type DependencySourcesResult struct {
	Items []DependencySourcesItem `json:"items"`
}

// ResourcesParams is the parameter of buildTarget/resources.
type ResourcesParams struct {
	Targets []BuildTargetIdentifier `json:"targets"`
}

// ResourcesItem lists the resources of one target.
type ResourcesItem struct {
	Target    BuildTargetIdentifier `json:"target"`
	Resources []string              `json:"resources"`
}

// ResourcesResult is the response to buildTarget/resources.
type ResourcesResult struct {
	Items []ResourcesItem `json:"items"`
}

// TextDocumentIdentifier identifies a source file.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// InverseSourcesParams is the parameter of buildTarget/inverseSources.
type InverseSourcesParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// InverseSourcesResult is the response to buildTarget/inverseSources.
type InverseSourcesResult struct {
	Targets []BuildTargetIdentifier `json:"targets"`
}

// CompileParams is the parameter of buildTarget/compile.
type CompileParams struct {
	Targets   []BuildTargetIdentifier `json:"targets"`
	OriginID  ldvalue.OptionalString  `json:"originId"`
	Arguments []string                `json:"arguments,omitempty"`
}

// CompileResult is the response to buildTarget/compile.
type CompileResult struct {
	OriginID   ldvalue.OptionalString `json:"originId"`
	StatusCode StatusCode             `json:"statusCode"`
	DataKind   string                 `json:"dataKind,omitempty"`
	Data       ldvalue.Value          `json:"data"`
}

// RunParams is the parameter of buildTarget/run. Unlike compile and test, it names one target.
type RunParams struct {
	Target    BuildTargetIdentifier  `json:"target"`
	OriginID  ldvalue.OptionalString `json:"originId"`
	Arguments []string               `json:"arguments,omitempty"`
	DataKind  string                 `json:"dataKind,omitempty"`
	Data      ldvalue.Value          `json:"data"`
}

// RunResult is the response to buildTarget/run.
type RunResult struct {
	OriginID   ldvalue.OptionalString `json:"originId"`
	StatusCode StatusCode             `json:"statusCode"`
}

// TestParams is the parameter of buildTarget/test.
type TestParams struct {
	Targets   []BuildTargetIdentifier `json:"targets"`
	OriginID  ldvalue.OptionalString  `json:"originId"`
	Arguments []string                `json:"arguments,omitempty"`
	DataKind  string                  `json:"dataKind,omitempty"`
	Data      ldvalue.Value           `json:"data"`
}

// TestResult is the response to buildTarget/test.
type TestResult struct {
	OriginID   ldvalue.OptionalString `json:"originId"`
	StatusCode StatusCode             `json:"statusCode"`
	DataKind   string                 `json:"dataKind,omitempty"`
	Data       ldvalue.Value          `json:"data"`
}

// CleanCacheParams is the parameter of buildTarget/cleanCache.
type CleanCacheParams struct {
	Targets []BuildTargetIdentifier `json:"targets"`
}

// CleanCacheResult is the response to buildTarget/cleanCache.
type CleanCacheResult struct {
	Message ldvalue.OptionalString `json:"message"`
	Cleaned bool                   `json:"cleaned"`
}
