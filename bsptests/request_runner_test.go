package bsptests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buildserver/bsp-contract-tests/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFake = errors.New("sorry")

func TestAwaitSuccessWhenSuccessExpected(t *testing.T) {
	value, err := Await(client.ResolvedFuture("m", "x"), MustSucceed, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, "x", value)
}

func TestAwaitSuccessWhenFailureExpected(t *testing.T) {
	_, err := Await(client.ResolvedFuture("m", "x"), MustFail, time.Second)
	require.Error(t, err)
	assert.True(t, IsFailureKind(err, UnexpectedSuccess))
	assert.Contains(t, err.Error(), "m: unexpected success")
}

func TestAwaitFailureWhenFailureExpected(t *testing.T) {
	value, err := Await(client.FailedFuture[string]("m", errFake), MustFail, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestAwaitFailureWhenSuccessExpected(t *testing.T) {
	_, err := Await(client.FailedFuture[string]("m", errFake), MustSucceed, time.Second)
	require.Error(t, err)
	assert.True(t, IsFailureKind(err, UnexpectedFailure))
	assert.True(t, errors.Is(err, errFake))
}

func TestAwaitTimeoutAbandonsRequest(t *testing.T) {
	for _, expectation := range []Expectation{MustSucceed, MustFail} {
		future := client.NewFuture(context.Background(), "m", func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

		_, err := Await(future, expectation, time.Millisecond*10)
		require.Error(t, err)
		assert.True(t, IsFailureKind(err, Timeout), "expectation: %s", expectation)

		select {
		case <-future.Done():
		case <-time.After(time.Second):
			require.Fail(t, "timed out waiting for abandoned request to stop")
		}
	}
}

func TestRequireSuccessStopsTestOnFailure(t *testing.T) {
	reachedEnd := false
	results := runTest(time.Second, func(t *T) {
		RequireSuccess(t, client.FailedFuture[string]("m", errFake))
		reachedEnd = true
	})
	assert.False(t, reachedEnd)
	assert.False(t, results.OK())
	assert.True(t, IsFailureKind(firstError(results), UnexpectedFailure))
}

func TestRequireFailureStopsTestOnSuccess(t *testing.T) {
	results := runTest(time.Second, func(t *T) {
		RequireFailure(t, client.ResolvedFuture("m", 1))
	})
	assert.True(t, IsFailureKind(firstError(results), UnexpectedSuccess))
}
