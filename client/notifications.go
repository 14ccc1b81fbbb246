package client

import (
	"context"
	"encoding/json"
	"sort"
	"sync/atomic"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/framework"

	"github.com/puzpuzpuz/xsync/v3"
	"go.lsp.dev/jsonrpc2"
)

// NotificationRecorder keeps track of the notifications a server has sent to us.
//
// Notifications are not part of any assertion, but they are useful debugging output, and the
// per-method counts let a caller see for instance whether a compile request produced any
// diagnostics. Messages arrive on the connection's reader goroutine, so the recorder must be
// safe for concurrent use.
type NotificationRecorder struct {
	counts *xsync.MapOf[string, *atomic.Int64]
	logger atomic.Pointer[loggerHolder]
}

type loggerHolder struct{ logger framework.Logger }

func newNotificationRecorder(logger framework.Logger) *NotificationRecorder {
	r := &NotificationRecorder{counts: xsync.NewMapOf[string, *atomic.Int64]()}
	r.SetLogger(logger)
	return r
}

// SetLogger changes where notification content is logged. The harness points this at the debug
// logger of whichever test is currently running.
func (r *NotificationRecorder) SetLogger(logger framework.Logger) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	r.logger.Store(&loggerHolder{logger: logger})
}

// Count returns the number of notifications received so far for the given method.
func (r *NotificationRecorder) Count(method string) int {
	if n, ok := r.counts.Load(method); ok {
		return int(n.Load())
	}
	return 0
}

// Counts returns a snapshot of all notification counts, keyed by method.
func (r *NotificationRecorder) Counts() map[string]int {
	ret := make(map[string]int)
	r.counts.Range(func(method string, n *atomic.Int64) bool {
		ret[method] = int(n.Load())
		return true
	})
	return ret
}

// Methods returns the methods of all notifications received so far, sorted by name.
func (r *NotificationRecorder) Methods() []string {
	var ret []string
	for m := range r.Counts() {
		ret = append(ret, m)
	}
	sort.Strings(ret)
	return ret
}

func (r *NotificationRecorder) record(method string, params json.RawMessage) {
	n, _ := r.counts.LoadOrStore(method, new(atomic.Int64))
	n.Add(1)

	logger := r.logger.Load().logger
	switch method {
	case bsp.NotificationLogMessage, bsp.NotificationShowMessage:
		var p bsp.LogMessageParams
		if err := json.Unmarshal(params, &p); err == nil {
			logger.Printf("<< %s [type %d] %s", method, p.Type, p.Message)
			return
		}
	case bsp.NotificationTaskFinish:
		var p bsp.TaskFinishParams
		if err := json.Unmarshal(params, &p); err == nil {
			logger.Printf("<< %s task=%s status=%s", method, p.TaskID.JSONString(), p.Status)
			return
		}
	}
	logger.Printf("<< %s (notification) %s", method, string(params))
}

// handle is the jsonrpc2 handler for messages initiated by the server. The protocol has no
// server-to-client requests that the harness supports, so calls are rejected as unknown methods.
func (r *NotificationRecorder) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if _, isCall := req.(*jsonrpc2.Call); isCall {
		r.logger.Load().logger.Printf("<< unsupported request from server: %s", req.Method())
		if err := jsonrpc2.MethodNotFoundHandler(ctx, reply, req); err != nil {
			r.logger.Load().logger.Printf("<< could not reject %s: %s", req.Method(), err)
		}
		return nil
	}
	r.record(req.Method(), req.Params())
	return nil
}
