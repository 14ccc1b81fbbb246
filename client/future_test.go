package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureResult(t *testing.T) {
	release := make(chan struct{})
	f := NewFuture(context.Background(), "m", func(ctx context.Context) (int, error) {
		<-release
		return 3, nil
	})
	assert.Equal(t, "m", f.Method())

	select {
	case <-f.Done():
		require.Fail(t, "future completed too soon")
	default:
	}

	close(release)
	value, err := f.Result()
	assert.NoError(t, err)
	assert.Equal(t, 3, value)
}

func TestAbandonCancelsCall(t *testing.T) {
	f := NewFuture(context.Background(), "m", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	f.Abandon()

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		require.Fail(t, "timed out waiting for abandoned call")
	}
	_, err := f.Result()
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCompletedFutures(t *testing.T) {
	value, err := ResolvedFuture("m", "x").Result()
	assert.NoError(t, err)
	assert.Equal(t, "x", value)

	myErr := errors.New("no")
	f := FailedFuture[string]("m", myErr)
	f.Abandon()
	_, err = f.Result()
	assert.Equal(t, myErr, err)
}
