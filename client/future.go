package client

import (
	"context"
)

// Future is the pending outcome of one request to the server.
//
// The request starts running as soon as the Future is created. The result can be read once the
// Done channel is closed. A caller that no longer cares about the outcome, for instance because
// it timed out, should call Abandon so that the underlying call stops waiting for a response;
// that does not necessarily cancel anything on the server side.
type Future[R any] struct {
	method string
	done   chan struct{}
	value  R
	err    error
	cancel context.CancelFunc
}

// NewFuture starts call in a new goroutine and returns a Future for its outcome.
func NewFuture[R any](ctx context.Context, method string, call func(context.Context) (R, error)) *Future[R] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[R]{
		method: method,
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(f.done)
		defer cancel()
		f.value, f.err = call(ctx)
	}()
	return f
}

// ResolvedFuture returns a Future that has already succeeded with the given value.
func ResolvedFuture[R any](method string, value R) *Future[R] {
	f := &Future[R]{method: method, done: make(chan struct{}), value: value, cancel: func() {}}
	close(f.done)
	return f
}

// FailedFuture returns a Future that has already failed with the given error.
func FailedFuture[R any](method string, err error) *Future[R] {
	f := &Future[R]{method: method, done: make(chan struct{}), err: err, cancel: func() {}}
	close(f.done)
	return f
}

// Method returns the JSON-RPC method name of the request.
func (f *Future[R]) Method() string { return f.method }

// Done returns a channel that is closed when the request has completed.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Result waits for the request to complete and returns its outcome.
func (f *Future[R]) Result() (R, error) {
	<-f.done
	return f.value, f.err
}

// Abandon tells the request to stop waiting for a response.
func (f *Future[R]) Abandon() { f.cancel() }
