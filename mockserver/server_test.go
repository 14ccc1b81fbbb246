package mockserver

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/client"
	"github.com/buildserver/bsp-contract-tests/framework"

	"go.lsp.dev/jsonrpc2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	targetA = bsp.BuildTargetIdentifier{URI: "file:///workspace/a"}
	targetB = bsp.BuildTargetIdentifier{URI: "file:///workspace/b"}
	targetC = bsp.BuildTargetIdentifier{URI: "file:///workspace/c"}
)

func connect(t *testing.T, config Config) (*Server, *client.Session) {
	s := New(config, nil)
	session := s.Connect(client.SessionOptions{})
	t.Cleanup(func() { _ = session.Close() })
	return s, session
}

func result[R any](t *testing.T, f *client.Future[R]) (R, error) {
	select {
	case <-f.Done():
	case <-time.After(time.Second * 5):
		require.Fail(t, "timed out waiting for response to "+f.Method())
	}
	return f.Result()
}

func rpcCode(err error) jsonrpc2.Code {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code
	}
	return 0
}

func initialize(t *testing.T, session *client.Session) {
	_, err := result(t, session.Server.Initialize(context.Background(), bsp.InitializeBuildParams{}))
	require.NoError(t, err)
	require.NoError(t, session.Server.Initialized(context.Background()))
}

func TestRequestBeforeInitializeIsRejected(t *testing.T) {
	_, session := connect(t, DefaultConfig())
	_, err := result(t, session.Server.WorkspaceBuildTargets(context.Background()))
	assert.Equal(t, jsonrpc2.ServerNotInitialized, rpcCode(err))
}

func TestSecondInitializeIsRejected(t *testing.T) {
	_, session := connect(t, DefaultConfig())
	initialize(t, session)
	_, err := result(t, session.Server.Initialize(context.Background(), bsp.InitializeBuildParams{}))
	assert.Equal(t, jsonrpc2.InvalidRequest, rpcCode(err))
}

func TestCompileStatus(t *testing.T) {
	config := DefaultConfig()
	config.CompileStatus = map[string]bsp.StatusCode{targetB.URI: bsp.StatusCancelled}
	s, session := connect(t, config)
	initialize(t, session)
	ctx := context.Background()

	r, err := result(t, session.Server.Compile(ctx, bsp.CompileParams{Targets: []bsp.BuildTargetIdentifier{targetA}}))
	require.NoError(t, err)
	assert.Equal(t, bsp.StatusOK, r.StatusCode)

	r, err = result(t, session.Server.Compile(ctx, bsp.CompileParams{Targets: []bsp.BuildTargetIdentifier{targetA, targetB}}))
	require.NoError(t, err)
	assert.Equal(t, bsp.StatusCancelled, r.StatusCode)

	r, err = result(t, session.Server.Compile(ctx, bsp.CompileParams{Targets: []bsp.BuildTargetIdentifier{targetA, targetC}}))
	require.NoError(t, err)
	assert.Equal(t, bsp.StatusError, r.StatusCode)

	_, err = result(t, session.Server.Compile(ctx, bsp.CompileParams{Targets: []bsp.BuildTargetIdentifier{targetC}}))
	assert.Equal(t, jsonrpc2.InvalidParams, rpcCode(err))

	_, err = result(t, session.Server.Compile(ctx, bsp.CompileParams{Targets: []bsp.BuildTargetIdentifier{{URI: "nope"}}}))
	assert.Equal(t, jsonrpc2.InvalidParams, rpcCode(err))

	assert.Equal(t, 5, s.ReceivedCount(bsp.MethodCompile))
}

func TestCompileSendsTaskNotifications(t *testing.T) {
	_, session := connect(t, DefaultConfig())
	initialize(t, session)

	_, err := result(t, session.Server.Compile(context.Background(), bsp.CompileParams{Targets: []bsp.BuildTargetIdentifier{targetA}}))
	require.NoError(t, err)

	// notifications are written before the response, on the same connection
	assert.Equal(t, 1, session.Notifications.Count(bsp.NotificationTaskStart))
	assert.Equal(t, 1, session.Notifications.Count(bsp.NotificationLogMessage))
	assert.Equal(t, 1, session.Notifications.Count(bsp.NotificationTaskFinish))
}

func TestInverseSources(t *testing.T) {
	_, session := connect(t, DefaultConfig())
	initialize(t, session)

	for doc, expected := range map[string][]bsp.BuildTargetIdentifier{
		"file:///workspace/a/main.go":  {targetA},
		"file:///workspace/b/sub/x.go": {targetB},
		"file:///workspace/c/gen.go":   {targetC},
		"file:///workspace/d/x.go":     {},
	} {
		r, err := result(t, session.Server.InverseSources(context.Background(),
			bsp.InverseSourcesParams{TextDocument: bsp.TextDocumentIdentifier{URI: doc}}))
		require.NoError(t, err)
		assert.Equal(t, expected, r.Targets, doc)
	}
}

func TestFailAndHangMethods(t *testing.T) {
	config := DefaultConfig()
	config.FailMethods = []string{bsp.MethodSources}
	config.HangMethods = []string{bsp.MethodResources}
	_, session := connect(t, config)
	initialize(t, session)

	_, err := result(t, session.Server.Sources(context.Background(), bsp.SourcesParams{}))
	assert.Equal(t, jsonrpc2.InternalError, rpcCode(err))

	f := session.Server.Resources(context.Background(), bsp.ResourcesParams{})
	select {
	case <-f.Done():
		assert.Fail(t, "should not have received a response")
	case <-time.After(time.Millisecond * 100):
	}
	f.Abandon()
}

func TestDelayedResponse(t *testing.T) {
	config := DefaultConfig()
	config.Delays = map[string]time.Duration{bsp.MethodWorkspaceTargets: time.Millisecond * 100}
	_, session := connect(t, config)
	initialize(t, session)

	start := time.Now()
	r, err := result(t, session.Server.WorkspaceBuildTargets(context.Background()))
	require.NoError(t, err)
	assert.Len(t, r.Targets, 3)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond*100)
}

func TestExitClosesConnection(t *testing.T) {
	_, session := connect(t, DefaultConfig())
	initialize(t, session)

	_, err := result(t, session.Server.Shutdown(context.Background()))
	require.NoError(t, err)
	_, err = result(t, session.Server.WorkspaceBuildTargets(context.Background()))
	assert.Equal(t, jsonrpc2.InvalidRequest, rpcCode(err))

	require.NoError(t, session.Server.Exit(context.Background()))
	select {
	case <-session.Done():
	case <-time.After(time.Second * 5):
		require.Fail(t, "connection was not closed after exit")
	}
}

func TestCleanCache(t *testing.T) {
	config := DefaultConfig()
	_, session := connect(t, config)
	initialize(t, session)

	r, err := result(t, session.Server.CleanCache(context.Background(), bsp.CleanCacheParams{Targets: bsp.TargetIDs(config.Targets)}))
	require.NoError(t, err)
	assert.True(t, r.Cleaned)
}

func TestHandlerToleratesBrokenConnection(t *testing.T) {
	var logger framework.CapturingLogger
	s := New(DefaultConfig(), &logger)
	req, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), bsp.MethodWorkspaceTargets, nil)
	require.NoError(t, err)

	brokenReply := func(context.Context, interface{}, error) error { return io.ErrClosedPipe }
	assert.NoError(t, s.handler(nil)(context.Background(), brokenReply, req))
	output := logger.Output()
	require.Len(t, output, 2)
	assert.Contains(t, output[1].Message, "could not reply to "+bsp.MethodWorkspaceTargets)
}

func TestRequestAfterExitDoesNotBreakServer(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, session := connect(t, DefaultConfig())
		initialize(t, session)
		ctx := context.Background()

		_, err := result(t, session.Server.Shutdown(ctx))
		require.NoError(t, err)
		require.NoError(t, session.Server.Exit(ctx))

		// races with the server closing the connection; either outcome is fine
		f := session.Server.WorkspaceBuildTargets(ctx)
		select {
		case <-f.Done():
		case <-session.Done():
			f.Abandon()
		case <-time.After(time.Second * 5):
			require.Fail(t, "connection was not closed after exit")
		}
		_ = session.Close()
	}
}
