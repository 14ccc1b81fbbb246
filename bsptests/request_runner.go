package bsptests

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/buildserver/bsp-contract-tests/client"
)

// Expectation says whether a request is supposed to succeed or to be rejected by the server.
type Expectation int

const (
	MustSucceed Expectation = iota
	MustFail
)

func (e Expectation) String() string {
	if e == MustFail {
		return "must fail"
	}
	return "must succeed"
}

// Await waits for the outcome of a request and checks it against the expectation.
//
// If the request succeeded as expected, its value is returned. If it failed as expected, the
// zero value and a nil error are returned. Otherwise the error is an *AssertionFailure of kind
// UnexpectedSuccess or UnexpectedFailure. If there is no response within the timeout, the
// request is abandoned and the error is a Timeout failure.
func Await[R any](future *client.Future[R], expectation Expectation, timeout time.Duration) (R, error) {
	var zero R
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-future.Done():
	case <-timer.C:
		future.Abandon()
		return zero, &AssertionFailure{
			Kind:    Timeout,
			Method:  future.Method(),
			Message: fmt.Sprintf("no response within %s", timeout),
		}
	}

	value, err := future.Result()
	switch {
	case err == nil && expectation == MustSucceed:
		return value, nil
	case err == nil:
		return zero, &AssertionFailure{
			Kind:    UnexpectedSuccess,
			Method:  future.Method(),
			Message: "expected the request to fail, but got " + describe(value),
			Actual:  value,
		}
	case expectation == MustFail:
		return zero, nil
	default:
		return zero, &AssertionFailure{Kind: UnexpectedFailure, Method: future.Method(), Err: err}
	}
}

// RequireSuccess waits for a request that must succeed, and returns its value. Any other outcome
// fails the test immediately.
func RequireSuccess[R any](t *T, future *client.Future[R]) R {
	value, err := Await(future, MustSucceed, t.timeout)
	if err != nil {
		t.fail(err)
	}
	return value
}

// RequireFailure waits for a request that must be rejected by the server. Any other outcome fails
// the test immediately.
func RequireFailure[R any](t *T, future *client.Future[R]) {
	if _, err := Await(future, MustFail, t.timeout); err != nil {
		t.fail(err)
	}
}

func requestContext() context.Context {
	return context.Background()
}

func describe(value interface{}) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%+v", value)
	}
	return string(data)
}
