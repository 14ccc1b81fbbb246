package client

import (
	"context"
	"io"
	"testing"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/framework"

	"go.lsp.dev/jsonrpc2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliver(t *testing.T, r *NotificationRecorder, method string, params interface{}) {
	n, err := jsonrpc2.NewNotification(method, params)
	require.NoError(t, err)
	noReply := func(context.Context, interface{}, error) error { return nil }
	require.NoError(t, r.handle(context.Background(), noReply, n))
}

func TestNotificationRecorderCounts(t *testing.T) {
	r := newNotificationRecorder(nil)
	deliver(t, r, bsp.NotificationTaskStart, map[string]interface{}{"taskId": map[string]string{"id": "1"}})
	deliver(t, r, bsp.NotificationTaskStart, map[string]interface{}{"taskId": map[string]string{"id": "2"}})
	deliver(t, r, bsp.NotificationPublishDiagnostics, map[string]interface{}{})

	assert.Equal(t, 2, r.Count(bsp.NotificationTaskStart))
	assert.Equal(t, 1, r.Count(bsp.NotificationPublishDiagnostics))
	assert.Equal(t, 0, r.Count(bsp.NotificationLogMessage))
	assert.Equal(t, map[string]int{bsp.NotificationTaskStart: 2, bsp.NotificationPublishDiagnostics: 1}, r.Counts())
	assert.Equal(t, []string{bsp.NotificationPublishDiagnostics, bsp.NotificationTaskStart}, r.Methods())
}

func TestNotificationRecorderLogsMessages(t *testing.T) {
	var logger framework.CapturingLogger
	r := newNotificationRecorder(nil)
	r.SetLogger(&logger)

	deliver(t, r, bsp.NotificationLogMessage, bsp.LogMessageParams{Type: bsp.MessageWarning, Message: "careful"})
	deliver(t, r, bsp.NotificationTaskFinish, bsp.TaskFinishParams{Status: bsp.StatusError})

	output := logger.Output()
	require.Len(t, output, 2)
	assert.Equal(t, "<< build/logMessage [type 2] careful", output[0].Message)
	assert.Contains(t, output[1].Message, "status="+bsp.StatusError.String())
}

func TestNotificationRecorderRejectsRequests(t *testing.T) {
	r := newNotificationRecorder(nil)
	call, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), "client/doSomething", nil)
	require.NoError(t, err)

	var replyErr error
	reply := func(_ context.Context, _ interface{}, err error) error {
		replyErr = err
		return nil
	}
	require.NoError(t, r.handle(context.Background(), reply, call))
	assert.ErrorIs(t, replyErr, jsonrpc2.ErrMethodNotFound)
	assert.Len(t, r.Methods(), 0)
}

func TestNotificationRecorderToleratesBrokenConnection(t *testing.T) {
	var logger framework.CapturingLogger
	r := newNotificationRecorder(nil)
	r.SetLogger(&logger)
	call, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), "client/doSomething", nil)
	require.NoError(t, err)

	brokenReply := func(context.Context, interface{}, error) error { return io.ErrClosedPipe }
	assert.NoError(t, r.handle(context.Background(), brokenReply, call))
	output := logger.Output()
	require.Len(t, output, 2)
	assert.Contains(t, output[1].Message, "could not reject client/doSomething")
}
