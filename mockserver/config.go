package mockserver

import (
	"time"

	"github.com/buildserver/bsp-contract-tests/bsp"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Config describes the workspace the mock server reports and how it behaves.
type Config struct {
	DisplayName  string                      `json:"displayName"`
	Version      string                      `json:"version"`
	BspVersion   string                      `json:"bspVersion"`
	Capabilities bsp.BuildServerCapabilities `json:"capabilities"`

	Targets           []bsp.BuildTarget           `json:"targets"`
	Sources           map[string][]bsp.SourceItem `json:"sources"`
	DependencySources map[string][]string         `json:"dependencySources"`
	Resources         map[string][]string         `json:"resources"`

	// Status codes by target URI. A capable target that is not listed succeeds.
	CompileStatus map[string]bsp.StatusCode `json:"compileStatus"`
	RunStatus     map[string]bsp.StatusCode `json:"runStatus"`
	TestStatus    map[string]bsp.StatusCode `json:"testStatus"`

	// CacheNotCleaned makes buildTarget/cleanCache report cleaned=false.
	CacheNotCleaned bool `json:"cacheNotCleaned"`

	// FailMethods lists methods that always return an error.
	FailMethods []string `json:"failMethods"`

	// HangMethods lists methods that never get a response.
	HangMethods []string `json:"hangMethods"`

	// Delays postpones the response to the given methods.
	Delays map[string]time.Duration `json:"-"`

	// AnswerAfterShutdown makes the server keep working normally after shutdown and exit.
	AnswerAfterShutdown bool `json:"answerAfterShutdown"`
}

func target(name string, caps bsp.BuildTargetCapabilities, tags ...string) bsp.BuildTarget {
	uri := "file:///workspace/" + name
	return bsp.BuildTarget{
		ID:            bsp.BuildTargetIdentifier{URI: uri},
		DisplayName:   ldvalue.NewOptionalString(name),
		BaseDirectory: ldvalue.NewOptionalString(uri),
		Tags:          tags,
		LanguageIDs:   []string{"go"},
		Dependencies:  []bsp.BuildTargetIdentifier{},
		Capabilities:  caps,
	}
}

// DefaultConfig returns a well-behaved server with three targets: "a" and "b" can be compiled,
// run and tested; "c" can do none of those.
func DefaultConfig() Config {
	a := target("a", bsp.BuildTargetCapabilities{CanCompile: true, CanRun: true, CanTest: true},
		bsp.TagApplication)
	b := target("b", bsp.BuildTargetCapabilities{CanCompile: true, CanRun: true, CanTest: true},
		bsp.TagLibrary)
	c := target("c", bsp.BuildTargetCapabilities{}, bsp.TagManual)
	return Config{
		DisplayName: "mock",
		Version:     "1.0.0",
		BspVersion:  bsp.ProtocolVersion,
		Capabilities: bsp.BuildServerCapabilities{
			CompileProvider:           &bsp.LanguageProvider{LanguageIDs: []string{"go"}},
			TestProvider:              &bsp.LanguageProvider{LanguageIDs: []string{"go"}},
			RunProvider:               &bsp.LanguageProvider{LanguageIDs: []string{"go"}},
			InverseSourcesProvider:    true,
			DependencySourcesProvider: true,
			ResourcesProvider:         true,
		},
		Targets: []bsp.BuildTarget{a, b, c},
		Sources: map[string][]bsp.SourceItem{
			a.ID.URI: {{URI: "file:///workspace/a/main.go", Kind: bsp.SourceItemFile}},
			b.ID.URI: {{URI: "file:///workspace/b/", Kind: bsp.SourceItemDirectory}},
			c.ID.URI: {{URI: "file:///workspace/c/gen.go", Kind: bsp.SourceItemFile, Generated: true}},
		},
		DependencySources: map[string][]string{
			a.ID.URI: {"file:///cache/dep-sources.zip"},
		},
		Resources: map[string][]string{
			b.ID.URI: {"file:///workspace/b/data.txt"},
		},
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
