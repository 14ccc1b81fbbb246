package mockserver

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"github.com/buildserver/bsp-contract-tests/client"
	"github.com/buildserver/bsp-contract-tests/framework"

	"go.lsp.dev/jsonrpc2"
)

type serverState int

const (
	stateNew serverState = iota
	stateInitialized
	stateShutDown
	stateExited
)

// ReceivedRequest is a request or notification that the server received.
type ReceivedRequest struct {
	Method string
	Params json.RawMessage
}

// Server is an in-memory build server. One Server handles one connection.
type Server struct {
	config   Config
	state    serverState
	received []ReceivedRequest
	logger   framework.Logger
	lock     sync.Mutex
}

// New creates a Server. The logger, which may be nil, receives a line for each request.
func New(config Config, logger framework.Logger) *Server {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Server{config: config, logger: logger}
}

// Serve handles requests on rwc until the connection is closed by either side, the client
// sends build/exit, or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, s.handler(conn))
	select {
	case <-conn.Done():
	case <-ctx.Done():
		_ = conn.Close()
		<-conn.Done()
	}
}

// Connect serves one end of an in-memory pipe and returns a client Session for the other end.
// Closing the Session stops the server.
func (s *Server) Connect(opts client.SessionOptions) *client.Session {
	serverEnd, clientEnd := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Serve(ctx, serverEnd)
	}()
	session := client.NewSession(clientEnd, opts)
	session.AddCloser(func() error {
		cancel()
		<-done
		return nil
	})
	return session
}

// Received returns every request and notification received so far, in order.
func (s *Server) Received() []ReceivedRequest {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]ReceivedRequest(nil), s.received...)
}

// ReceivedCount returns how many requests or notifications with the given method were received.
func (s *Server) ReceivedCount(method string) int {
	n := 0
	for _, r := range s.Received() {
		if r.Method == method {
			n++
		}
	}
	return n
}

// ReceivedParams returns the parameters of every received message with the given method.
func (s *Server) ReceivedParams(method string) []json.RawMessage {
	var ret []json.RawMessage
	for _, r := range s.Received() {
		if r.Method == method {
			ret = append(ret, r.Params)
		}
	}
	return ret
}

func (s *Server) getState() serverState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

func (s *Server) setState(st serverState) {
	s.lock.Lock()
	s.state = st
	s.lock.Unlock()
}

func (s *Server) handler(conn jsonrpc2.Conn) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		method := req.Method()
		s.lock.Lock()
		s.received = append(s.received, ReceivedRequest{Method: method, Params: req.Params()})
		s.lock.Unlock()
		s.logger.Printf("mock server received %s", method)

		if contains(s.config.HangMethods, method) {
			return nil
		}
		if contains(s.config.FailMethods, method) {
			s.reply(ctx, reply, method, nil, jsonrpc2.NewError(jsonrpc2.InternalError, "mock server configured to fail "+method))
			return nil
		}

		result, err := s.dispatch(ctx, conn, method, req.Params())
		if delay := s.config.Delays[method]; delay > 0 {
			go func() {
				time.Sleep(delay)
				s.reply(ctx, reply, method, result, err)
			}()
			return nil
		}
		s.reply(ctx, reply, method, result, err)
		return nil
	}
}

// reply sends a response. A write can fail once the client has gone away, which is only worth a
// log line: an error returned from the handler would be stored as the connection's failure.
func (s *Server) reply(ctx context.Context, reply jsonrpc2.Replier, method string, result interface{}, err error) {
	if replyErr := reply(ctx, result, err); replyErr != nil {
		s.logger.Printf("mock server could not reply to %s: %s", method, replyErr)
	}
}
