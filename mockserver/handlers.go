package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buildserver/bsp-contract-tests/bsp"

	"go.lsp.dev/jsonrpc2"
)

func invalidParams(format string, args ...interface{}) error {
	return jsonrpc2.NewError(jsonrpc2.InvalidParams, fmt.Sprintf(format, args...))
}

func decode(params json.RawMessage, target interface{}) error {
	if err := json.Unmarshal(params, target); err != nil {
		return jsonrpc2.NewError(jsonrpc2.ParseError, err.Error())
	}
	return nil
}

func (s *Server) dispatch(ctx context.Context, conn jsonrpc2.Conn, method string, params json.RawMessage) (interface{}, error) {
	st := s.getState()
	switch method {
	case bsp.MethodBuildInitialize:
		if st != stateNew {
			return nil, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "server was already initialized")
		}
		var p bsp.InitializeBuildParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		s.setState(stateInitialized)
		return bsp.InitializeBuildResult{
			DisplayName:  s.config.DisplayName,
			Version:      s.config.Version,
			BspVersion:   s.config.BspVersion,
			Capabilities: s.config.Capabilities,
		}, nil
	case bsp.MethodBuildInitialized:
		return nil, nil
	case bsp.MethodBuildShutdown:
		if st == stateNew {
			return nil, jsonrpc2.NewError(jsonrpc2.ServerNotInitialized, "server was not initialized")
		}
		s.setState(stateShutDown)
		return nil, nil
	case bsp.MethodBuildExit:
		s.setState(stateExited)
		if !s.config.AnswerAfterShutdown {
			go func() { _ = conn.Close() }()
		}
		return nil, nil
	}

	if st == stateNew {
		return nil, jsonrpc2.NewError(jsonrpc2.ServerNotInitialized, "server was not initialized")
	}
	if st >= stateShutDown && !s.config.AnswerAfterShutdown {
		return nil, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "server is shutting down")
	}

	switch method {
	case bsp.MethodWorkspaceTargets:
		return bsp.WorkspaceBuildTargetsResult{Targets: s.config.Targets}, nil
	case bsp.MethodSources:
		var p bsp.SourcesParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return s.sources(p)
	case bsp.MethodDependencySources:
		var p bsp.DependencySourcesParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return s.dependencySources(p)
	case bsp.MethodResources:
		var p bsp.ResourcesParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return s.resources(p)
	case bsp.MethodInverseSources:
		var p bsp.InverseSourcesParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return s.inverseSources(p), nil
	case bsp.MethodCompile:
		var p bsp.CompileParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		status, err := s.batchStatus(p.Targets, "compiled",
			func(c bsp.BuildTargetCapabilities) bool { return c.CanCompile }, s.config.CompileStatus)
		if err != nil {
			return nil, err
		}
		s.sendTaskNotifications(ctx, conn, "compile", p.OriginID.StringValue(), status)
		return bsp.CompileResult{OriginID: p.OriginID, StatusCode: status}, nil
	case bsp.MethodTest:
		var p bsp.TestParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		status, err := s.batchStatus(p.Targets, "tested",
			func(c bsp.BuildTargetCapabilities) bool { return c.CanTest }, s.config.TestStatus)
		if err != nil {
			return nil, err
		}
		s.sendTaskNotifications(ctx, conn, "test", p.OriginID.StringValue(), status)
		return bsp.TestResult{OriginID: p.OriginID, StatusCode: status}, nil
	case bsp.MethodRun:
		var p bsp.RunParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		t, ok := s.findTarget(p.Target)
		if !ok {
			return nil, invalidParams("unknown target %s", p.Target)
		}
		if !t.Capabilities.CanRun {
			return nil, invalidParams("target %s cannot be run", p.Target)
		}
		status := bsp.StatusOK
		if configured, ok := s.config.RunStatus[p.Target.URI]; ok {
			status = configured
		}
		return bsp.RunResult{OriginID: p.OriginID, StatusCode: status}, nil
	case bsp.MethodCleanCache:
		var p bsp.CleanCacheParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		for _, id := range p.Targets {
			if _, ok := s.findTarget(id); !ok {
				return nil, invalidParams("unknown target %s", id)
			}
		}
		return bsp.CleanCacheResult{Cleaned: !s.config.CacheNotCleaned}, nil
	}
	return nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, "method not supported: "+method)
}

func (s *Server) findTarget(id bsp.BuildTargetIdentifier) (bsp.BuildTarget, bool) {
	for _, t := range s.config.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return bsp.BuildTarget{}, false
}

func (s *Server) checkTargets(ids []bsp.BuildTargetIdentifier) error {
	for _, id := range ids {
		if _, ok := s.findTarget(id); !ok {
			return invalidParams("unknown target %s", id)
		}
	}
	return nil
}

// batchStatus decides the outcome of a compile or test request. A request that names only
// incapable targets is rejected outright. A mixed request is accepted, but reports an error
// status, as a real build would fail partway.
func (s *Server) batchStatus(
	ids []bsp.BuildTargetIdentifier,
	verb string,
	capable func(bsp.BuildTargetCapabilities) bool,
	configured map[string]bsp.StatusCode,
) (bsp.StatusCode, error) {
	if err := s.checkTargets(ids); err != nil {
		return 0, err
	}
	status := bsp.StatusOK
	anyCapable := false
	for _, id := range ids {
		t, _ := s.findTarget(id)
		if !capable(t.Capabilities) {
			status = bsp.StatusError
			continue
		}
		anyCapable = true
		if c, ok := configured[id.URI]; ok && c != bsp.StatusOK {
			status = c
		}
	}
	if len(ids) > 0 && !anyCapable {
		return 0, invalidParams("none of the targets can be %s", verb)
	}
	return status, nil
}

func (s *Server) sources(p bsp.SourcesParams) (bsp.SourcesResult, error) {
	if err := s.checkTargets(p.Targets); err != nil {
		return bsp.SourcesResult{}, err
	}
	result := bsp.SourcesResult{Items: []bsp.SourcesItem{}}
	for _, id := range p.Targets {
		sources := s.config.Sources[id.URI]
		if sources == nil {
			sources = []bsp.SourceItem{}
		}
		result.Items = append(result.Items, bsp.SourcesItem{Target: id, Sources: sources})
	}
	return result, nil
}

func (s *Server) dependencySources(p bsp.DependencySourcesParams) (bsp.DependencySourcesResult, error) {
	if err := s.checkTargets(p.Targets); err != nil {
		return bsp.DependencySourcesResult{}, err
	}
	result := bsp.DependencySourcesResult{Items: []bsp.DependencySourcesItem{}}
	for _, id := range p.Targets {
		sources := s.config.DependencySources[id.URI]
		if sources == nil {
			sources = []string{}
		}
		result.Items = append(result.Items, bsp.DependencySourcesItem{Target: id, Sources: sources})
	}
	return result, nil
}

func (s *Server) resources(p bsp.ResourcesParams) (bsp.ResourcesResult, error) {
	if err := s.checkTargets(p.Targets); err != nil {
		return bsp.ResourcesResult{}, err
	}
	result := bsp.ResourcesResult{Items: []bsp.ResourcesItem{}}
	for _, id := range p.Targets {
		resources := s.config.Resources[id.URI]
		if resources == nil {
			resources = []string{}
		}
		result.Items = append(result.Items, bsp.ResourcesItem{Target: id, Resources: resources})
	}
	return result, nil
}

// inverseSources finds the targets that own a document, either as a listed file or as a file
// under a listed directory.
func (s *Server) inverseSources(p bsp.InverseSourcesParams) bsp.InverseSourcesResult {
	result := bsp.InverseSourcesResult{Targets: []bsp.BuildTargetIdentifier{}}
	for _, t := range s.config.Targets {
		for _, item := range s.config.Sources[t.ID.URI] {
			owned := item.URI == p.TextDocument.URI ||
				(item.Kind == bsp.SourceItemDirectory && strings.HasPrefix(p.TextDocument.URI, item.URI))
			if owned {
				result.Targets = append(result.Targets, t.ID)
				break
			}
		}
	}
	return result
}

func (s *Server) sendTaskNotifications(
	ctx context.Context,
	conn jsonrpc2.Conn,
	task, originID string,
	status bsp.StatusCode,
) {
	taskID := map[string]string{"id": task + "-" + originID}
	_ = conn.Notify(ctx, bsp.NotificationTaskStart, map[string]interface{}{"taskId": taskID})
	_ = conn.Notify(ctx, bsp.NotificationLogMessage, bsp.LogMessageParams{
		Type:    bsp.MessageInfo,
		Message: fmt.Sprintf("%s finished with status %s", task, status),
	})
	_ = conn.Notify(ctx, bsp.NotificationTaskFinish, map[string]interface{}{"taskId": taskID, "status": status})
}
