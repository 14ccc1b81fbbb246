package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/framework"

	"go.lsp.dev/jsonrpc2"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Server is the client-side stub for a build server's JSON-RPC endpoint.
type Server struct {
	conn   jsonrpc2.Conn
	logger framework.Logger
}

func newServer(conn jsonrpc2.Conn, logger framework.Logger) *Server {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Server{conn: conn, logger: logger}
}

// WithLogger returns a stub for the same connection that writes request traces to a different
// logger. The test harness uses this to attach traffic to the debug output of the current test.
func (s *Server) WithLogger(logger framework.Logger) *Server {
	return newServer(s.conn, logger)
}

// ErrConnectionClosed is the error of any request that was still waiting for a response, or was
// issued, after the connection stopped.
var ErrConnectionClosed = errors.New("connection to build server was closed")

func call[R any](ctx context.Context, s *Server, method string, params interface{}) *Future[R] {
	return NewFuture(ctx, method, func(ctx context.Context) (R, error) {
		var result R
		s.logger.Printf(">> %s %s", method, toJSON(params))

		// jsonrpc2 does not fail pending calls when the stream breaks, so we do that here.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-s.conn.Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		if _, err := s.conn.Call(ctx, method, params, &result); err != nil {
			if s.closed() {
				err = fmt.Errorf("%s: %w", method, ErrConnectionClosed)
			}
			s.logger.Printf("<< %s failed: %s", method, err)
			return result, err
		}
		s.logger.Printf("<< %s %s", method, toJSON(result))
		return result, nil
	})
}

func (s *Server) closed() bool {
	select {
	case <-s.conn.Done():
		return true
	default:
		return false
	}
}

func (s *Server) notify(ctx context.Context, method string, params interface{}) error {
	s.logger.Printf(">> %s (notification) %s", method, toJSON(params))
	return s.conn.Notify(ctx, method, params)
}

func (s *Server) Initialize(ctx context.Context, params bsp.InitializeBuildParams) *Future[bsp.InitializeBuildResult] {
	return call[bsp.InitializeBuildResult](ctx, s, bsp.MethodBuildInitialize, params)
}

func (s *Server) Initialized(ctx context.Context) error {
	return s.notify(ctx, bsp.MethodBuildInitialized, bsp.InitializedBuildParams{})
}

// Shutdown asks the server to shut down. The result carries no information.
func (s *Server) Shutdown(ctx context.Context) *Future[ldvalue.Value] {
	return call[ldvalue.Value](ctx, s, bsp.MethodBuildShutdown, nil)
}

func (s *Server) Exit(ctx context.Context) error {
	return s.notify(ctx, bsp.MethodBuildExit, nil)
}

func (s *Server) WorkspaceBuildTargets(ctx context.Context) *Future[bsp.WorkspaceBuildTargetsResult] {
	return call[bsp.WorkspaceBuildTargetsResult](ctx, s, bsp.MethodWorkspaceTargets, nil)
}

func (s *Server) Sources(ctx context.Context, params bsp.SourcesParams) *Future[bsp.SourcesResult] {
	return call[bsp.SourcesResult](ctx, s, bsp.MethodSources, params)
}

func (s *Server) DependencySources(
	ctx context.Context,
	params bsp.DependencySourcesParams,
) *Future[bsp.DependencySourcesResult] {
	return call[bsp.DependencySourcesResult](ctx, s, bsp.MethodDependencySources, params)
}

func (s *Server) Resources(ctx context.Context, params bsp.ResourcesParams) *Future[bsp.ResourcesResult] {
	return call[bsp.ResourcesResult](ctx, s, bsp.MethodResources, params)
}

func (s *Server) InverseSources(
	ctx context.Context,
	params bsp.InverseSourcesParams,
) *Future[bsp.InverseSourcesResult] {
	return call[bsp.InverseSourcesResult](ctx, s, bsp.MethodInverseSources, params)
}

func (s *Server) Compile(ctx context.Context, params bsp.CompileParams) *Future[bsp.CompileResult] {
	return call[bsp.CompileResult](ctx, s, bsp.MethodCompile, params)
}

func (s *Server) Run(ctx context.Context, params bsp.RunParams) *Future[bsp.RunResult] {
	return call[bsp.RunResult](ctx, s, bsp.MethodRun, params)
}

func (s *Server) Test(ctx context.Context, params bsp.TestParams) *Future[bsp.TestResult] {
	return call[bsp.TestResult](ctx, s, bsp.MethodTest, params)
}

func (s *Server) CleanCache(ctx context.Context, params bsp.CleanCacheParams) *Future[bsp.CleanCacheResult] {
	return call[bsp.CleanCacheResult](ctx, s, bsp.MethodCleanCache, params)
}

func toJSON(value interface{}) string {
	data, err := json.Marshal(value)
	if err != nil {
		return "<unserializable: " + err.Error() + ">"
	}
	return string(data)
}
