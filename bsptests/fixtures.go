package bsptests

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/framework"
)

const fixtureDownloadTimeout = time.Second * 30

// Fixtures are the expected results for the comparison scenarios. Each field that is nil or empty
// disables the corresponding scenario.
type Fixtures struct {
	WorkspaceTargets  *bsp.WorkspaceBuildTargetsResult `json:"workspaceTargets,omitempty"`
	Sources           *bsp.SourcesResult               `json:"sources,omitempty"`
	DependencySources *bsp.DependencySourcesResult     `json:"dependencySources,omitempty"`
	Resources         *bsp.ResourcesResult             `json:"resources,omitempty"`
	InverseSources    []InverseSourcesFixture          `json:"inverseSources,omitempty"`
}

// InverseSourcesFixture is the expected answer to buildTarget/inverseSources for one document.
type InverseSourcesFixture struct {
	Document string                      `json:"document"`
	Targets  []bsp.BuildTargetIdentifier `json:"targets"`
}

// LoadFixtures reads a YAML or JSON fixture file from a local path or an http(s) URL.
func LoadFixtures(location string) (Fixtures, error) {
	var fixtures Fixtures
	data, err := readLocation(location)
	if err != nil {
		return fixtures, err
	}
	if err := framework.DecodeDocument(data, &fixtures); err != nil {
		return fixtures, fmt.Errorf("fixtures in %s: %w", location, err)
	}
	return fixtures, nil
}

func readLocation(location string) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("unable to read fixtures: %w", err)
		}
		return data, nil
	}
	httpClient := http.Client{Timeout: fixtureDownloadTimeout}
	resp, err := httpClient.Get(location)
	if err != nil {
		return nil, fmt.Errorf("unable to download fixtures: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download fixtures from %s: status %d", location, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to download fixtures: %w", err)
	}
	return data, nil
}
