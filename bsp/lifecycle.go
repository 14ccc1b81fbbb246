package bsp

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ProtocolVersion is the BSP version that the harness announces during the handshake.
const ProtocolVersion = "2.1.0"

// BuildClientCapabilities describes what the client supports.
type BuildClientCapabilities struct {
	LanguageIDs []string `json:"languageIds"`
}

// InitializeBuildParams is the parameter of build/initialize.
type InitializeBuildParams struct {
	DisplayName  string                  `json:"displayName"`
	Version      string                  `json:"version"`
	BspVersion   string                  `json:"bspVersion"`
	RootURI      string                  `json:"rootUri"`
	Capabilities BuildClientCapabilities `json:"capabilities"`
	DataKind     string                  `json:"dataKind,omitempty"`
	Data         ldvalue.Value           `json:"data"`
}

// LanguageProvider lists the languages for which a server supports some request.
type LanguageProvider struct {
	LanguageIDs []string `json:"languageIds"`
}

// BuildServerCapabilities is what the server reports in its build/initialize response.
type BuildServerCapabilities struct {
	CompileProvider            *LanguageProvider `json:"compileProvider,omitempty"`
	TestProvider               *LanguageProvider `json:"testProvider,omitempty"`
	RunProvider                *LanguageProvider `json:"runProvider,omitempty"`
	DebugProvider              *LanguageProvider `json:"debugProvider,omitempty"`
	InverseSourcesProvider     bool              `json:"inverseSourcesProvider,omitempty"`
	DependencySourcesProvider  bool              `json:"dependencySourcesProvider,omitempty"`
	DependencyModulesProvider  bool              `json:"dependencyModulesProvider,omitempty"`
	ResourcesProvider          bool              `json:"resourcesProvider,omitempty"`
	OutputPathsProvider        bool              `json:"outputPathsProvider,omitempty"`
	BuildTargetChangedProvider bool              `json:"buildTargetChangedProvider,omitempty"`
	JvmRunEnvironmentProvider  bool              `json:"jvmRunEnvironmentProvider,omitempty"`
	JvmTestEnvironmentProvider bool              `json:"jvmTestEnvironmentProvider,omitempty"`
	CanReload                  bool              `json:"canReload,omitempty"`
}

// Names of server capabilities, as reported by Names.
const (
	CapabilityCompile            = "compile"
	CapabilityTest               = "test"
	CapabilityRun                = "run"
	CapabilityDebug              = "debug"
	CapabilityInverseSources     = "inverse-sources"
	CapabilityDependencySources  = "dependency-sources"
	CapabilityResources          = "resources"
	CapabilityBuildTargetChanged = "build-target-changed"
	CapabilityReload             = "reload"
)

// AllCapabilities is the list of capability names that Names can return.
var AllCapabilities = []string{
	CapabilityCompile,
	CapabilityTest,
	CapabilityRun,
	CapabilityDebug,
	CapabilityInverseSources,
	CapabilityDependencySources,
	CapabilityResources,
	CapabilityBuildTargetChanged,
	CapabilityReload,
}

// Names returns the names of the capabilities that the server has declared.
func (c BuildServerCapabilities) Names() []string {
	var ret []string
	add := func(name string, present bool) {
		if present {
			ret = append(ret, name)
		}
	}
	add(CapabilityCompile, c.CompileProvider != nil)
	add(CapabilityTest, c.TestProvider != nil)
	add(CapabilityRun, c.RunProvider != nil)
	add(CapabilityDebug, c.DebugProvider != nil)
	add(CapabilityInverseSources, c.InverseSourcesProvider)
	add(CapabilityDependencySources, c.DependencySourcesProvider)
	add(CapabilityResources, c.ResourcesProvider)
	add(CapabilityBuildTargetChanged, c.BuildTargetChangedProvider)
	add(CapabilityReload, c.CanReload)
	return ret
}

// Has returns true if the named capability was declared.
func (c BuildServerCapabilities) Has(name string) bool {
	for _, n := range c.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// InitializeBuildResult is the response to build/initialize.
type InitializeBuildResult struct {
	DisplayName  string                  `json:"displayName"`
	Version      string                  `json:"version"`
	BspVersion   string                  `json:"bspVersion"`
	Capabilities BuildServerCapabilities `json:"capabilities"`
	DataKind     string                  `json:"dataKind,omitempty"`
	Data         ldvalue.Value           `json:"data"`
}

// InitializedBuildParams is the (empty) parameter of the build/initialized notification.
type InitializedBuildParams struct{}
