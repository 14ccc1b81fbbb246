package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/framework"

	"go.lsp.dev/jsonrpc2"
)

// Session is one connection to a build server under test.
//
// It is created by Launch, Dial or NewSession, handed to the test harness, and discarded after
// the harness has shut the server down. It is not safe to share a Session between concurrent
// test runs.
type Session struct {
	// Server is the request stub for the connection.
	Server *Server

	// Details describes how the server was found; for a server started from a connection
	// file, these are the file's contents.
	Details ConnectionDetails

	// WorkspaceRoot is the absolute path of the workspace the server is working on.
	WorkspaceRoot string

	// CompilerOutputDir is where the harness expects compiled output to be placed, or "" if
	// the server should use its own default.
	CompilerOutputDir string

	// Notifications records what the server sends us without being asked.
	Notifications *NotificationRecorder

	conn         jsonrpc2.Conn
	state        SessionState
	capabilities bsp.BuildServerCapabilities
	closers      []func() error
	closeOnce    sync.Once
	closeErr     error
	lock         sync.Mutex
}

// SessionState is the position of a Session in the protocol lifecycle. A Session only ever moves
// forward through these states.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateInitialized
	StateShuttingDown
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateShuttingDown:
		return "shutting down"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// SessionOptions are the parameters of NewSession.
type SessionOptions struct {
	Details           ConnectionDetails
	WorkspaceRoot     string
	CompilerOutputDir string
	Logger            framework.Logger
}

// NewSession wraps an already-established byte stream to a build server. The stream is closed
// when the Session is closed.
func NewSession(rwc io.ReadWriteCloser, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = framework.NullLogger()
	}
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	recorder := newNotificationRecorder(logger)
	conn.Go(context.Background(), recorder.handle)
	return &Session{
		Server:            newServer(conn, logger),
		Details:           opts.Details,
		WorkspaceRoot:     opts.WorkspaceRoot,
		CompilerOutputDir: opts.CompilerOutputDir,
		Notifications:     recorder,
		conn:              conn,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// SetState moves the Session to a later lifecycle state. Attempts to move backward are ignored.
func (s *Session) SetState(state SessionState) {
	s.lock.Lock()
	if state > s.state {
		s.state = state
	}
	s.lock.Unlock()
}

// Capabilities returns the capabilities that the server declared during the handshake. Before
// the handshake this is the zero value.
func (s *Session) Capabilities() bsp.BuildServerCapabilities {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.capabilities
}

// SetCapabilities is called by the handshake logic once the server has declared its capabilities.
func (s *Session) SetCapabilities(c bsp.BuildServerCapabilities) {
	s.lock.Lock()
	s.capabilities = c
	s.lock.Unlock()
}

// Done returns a channel that is closed when the connection has stopped, either because the
// server went away or because the Session was closed.
func (s *Session) Done() <-chan struct{} {
	return s.conn.Done()
}

// AddCloser registers a function to be called after the connection is closed, such as waiting
// for a server process to exit.
func (s *Session) AddCloser(f func() error) {
	s.lock.Lock()
	s.closers = append(s.closers, f)
	s.lock.Unlock()
}

// Close closes the connection and releases anything associated with it. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		errs := []error{s.conn.Close()}
		s.lock.Lock()
		closers := s.closers
		s.lock.Unlock()
		for _, f := range closers {
			errs = append(errs, f())
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
