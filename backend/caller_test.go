package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSleep records requested delays without waiting.
func stubSleep(c *Caller) *[]time.Duration {
	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return &delays
}

func TestCaller_Success(t *testing.T) {
	mock := NewMock("test-model")
	mock.QueueReply(`{"ok": true}`)
	c := NewCaller(mock)
	stubSleep(c)

	res := c.Call(context.Background(), "system", "user")

	require.True(t, res.Success)
	assert.Equal(t, `{"ok": true}`, res.Content)
	assert.Equal(t, "test-model", res.BackendModel)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, res.Error)
	assert.GreaterOrEqual(t, res.LatencySeconds, 0.0)
}

func TestCaller_PassesRequestFields(t *testing.T) {
	mock := NewMock("test-model")
	c := NewCaller(mock, func(o *CallOptions) {
		o.Temperature = 0.7
		o.MaxOutputTokens = 128
	})
	stubSleep(c)

	c.Call(context.Background(), "sys", "usr")

	req, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "sys", req.System)
	assert.Equal(t, "usr", req.User)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, int64(128), req.MaxOutputTokens)
	assert.True(t, req.JSONResponse)
}

func TestCaller_RetriesTransientThenSucceeds(t *testing.T) {
	mock := NewMock("test-model")
	mock.QueueError(&CallError{Kind: ErrRateLimited, Status: 429})
	mock.QueueReply("recovered")
	c := NewCaller(mock, func(o *CallOptions) {
		o.MaxRetries = 3
		o.BaseRetryDelay = time.Second
	})
	delays := stubSleep(c)

	res := c.Call(context.Background(), "s", "u")

	require.True(t, res.Success)
	assert.Equal(t, "recovered", res.Content)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, []time.Duration{time.Second}, *delays)
}

func TestCaller_ExponentialBackoff(t *testing.T) {
	mock := NewMock("test-model")
	for i := 0; i < 3; i++ {
		mock.QueueError(&CallError{Kind: ErrServer5xx, Status: 503})
	}
	mock.QueueReply("up again")
	c := NewCaller(mock, func(o *CallOptions) {
		o.MaxRetries = 3
		o.BaseRetryDelay = time.Second
	})
	delays := stubSleep(c)

	res := c.Call(context.Background(), "s", "u")

	require.True(t, res.Success)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *delays)
}

func TestCaller_RetryBudgetExhausted(t *testing.T) {
	mock := NewMock("test-model")
	for i := 0; i < 10; i++ {
		mock.QueueError(&CallError{Kind: ErrRateLimited, Status: 429})
	}
	c := NewCaller(mock, func(o *CallOptions) {
		o.MaxRetries = 2
	})
	stubSleep(c)

	res := c.Call(context.Background(), "s", "u")

	require.False(t, res.Success)
	// First attempt plus MaxRetries retries, never more.
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, mock.Calls())
	assert.Equal(t, ErrRateLimited, res.ErrorKind)
	assert.NotEmpty(t, res.Error)
}

func TestCaller_NonRetryableStopsImmediately(t *testing.T) {
	mock := NewMock("test-model")
	mock.QueueError(&CallError{Kind: ErrAuthMissing, Status: 401})
	mock.QueueReply("never reached")
	c := NewCaller(mock)
	stubSleep(c)

	res := c.Call(context.Background(), "s", "u")

	require.False(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, ErrAuthMissing, res.ErrorKind)
}

func TestCaller_EmptyContentIsFatal(t *testing.T) {
	mock := NewMock("test-model")
	mock.QueueReply("   \n ")
	mock.QueueReply("never reached")
	c := NewCaller(mock)
	stubSleep(c)

	res := c.Call(context.Background(), "s", "u")

	require.False(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, ErrEmptyContent, res.ErrorKind)
}

func TestCaller_PerCallOverrides(t *testing.T) {
	mock := NewMock("test-model")
	mock.QueueError(&CallError{Kind: ErrServer5xx, Status: 500})
	c := NewCaller(mock, func(o *CallOptions) {
		o.MaxRetries = 5
	})
	stubSleep(c)

	res := c.Call(context.Background(), "s", "u", func(o *CallOptions) {
		o.MaxRetries = 0
	})

	require.False(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	// The configured defaults are untouched.
	assert.Equal(t, 5, c.Options().MaxRetries)
}

func TestCaller_Pacing(t *testing.T) {
	mock := NewMock("test-model")
	mock.QueueReply("one")
	mock.QueueReply("two")
	c := NewCaller(mock, func(o *CallOptions) {
		o.RateLimitMinInterval = time.Minute
	})
	delays := stubSleep(c)

	c.Call(context.Background(), "s", "u")
	assert.Empty(t, *delays, "first call must not wait")

	c.Call(context.Background(), "s", "u")
	require.Len(t, *delays, 1)
	assert.Greater(t, (*delays)[0], 50*time.Second)
}

func TestCaller_CancelledContext(t *testing.T) {
	mock := NewMock("test-model")
	c := NewCaller(mock)
	stubSleep(c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.Call(ctx, "s", "u")

	require.False(t, res.Success)
	assert.Equal(t, ErrTimeout, res.ErrorKind)
}

func TestMock_ScriptAndKeyedReplies(t *testing.T) {
	mock := NewMock("m")
	mock.AddResponse("hello", "keyed")
	mock.QueueReply("scripted")

	resp, err := mock.Complete(context.Background(), Request{User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "scripted", resp.Content, "script wins over keyed replies")

	resp, err = mock.Complete(context.Background(), Request{User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "keyed", resp.Content)

	resp, err = mock.Complete(context.Background(), Request{User: "other"})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Mock response to: other")
}
