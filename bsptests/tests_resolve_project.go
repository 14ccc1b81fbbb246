package bsptests

import (
	"sort"
	"strings"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"
)

// DoResolveProject does what an IDE does when it opens a workspace: it lists the build targets,
// then asks for the sources, dependency sources and resources of all of them in one request
// each. Every request must succeed.
func DoResolveProject(t *T, session *client.Session) {
	targets := workspaceTargets(t, session)
	t.Debug("workspace has %d targets in languages: %s", len(targets), strings.Join(collectLanguages(targets), ", "))

	ids := bsp.TargetIDs(targets)
	server := requestServer(t, session)
	RequireSuccess(t, server.Sources(requestContext(), bsp.SourcesParams{Targets: ids}))
	RequireSuccess(t, server.DependencySources(requestContext(), bsp.DependencySourcesParams{Targets: ids}))
	RequireSuccess(t, server.Resources(requestContext(), bsp.ResourcesParams{Targets: ids}))
}

func workspaceTargets(t *T, session *client.Session) []bsp.BuildTarget {
	result := RequireSuccess(t, requestServer(t, session).WorkspaceBuildTargets(requestContext()))
	return result.Targets
}

func collectLanguages(targets []bsp.BuildTarget) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, target := range targets {
		for _, lang := range target.LanguageIDs {
			if !seen[lang] {
				seen[lang] = true
				ret = append(ret, lang)
			}
		}
	}
	sort.Strings(ret)
	return ret
}
