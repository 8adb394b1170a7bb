// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCoordinator uses a tiny base delay so tests finish quickly.
func testCoordinator(maxRetries int) *Coordinator {
	return NewCoordinator(1000, maxRetries, 1*time.Millisecond)
}

func TestDoWithRetry_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	coord := testCoordinator(5)
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, coord, zerolog.Nop())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, StateIdle, coord.CurrentState())
}

func TestDoWithRetry_RetriesThen200(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	coord := testCoordinator(5)
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, coord, zerolog.Nop())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	// Success resets the episode.
	assert.Equal(t, 0, coord.Attempt())
}

func TestDoWithRetry_ExhaustsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	coord := testCoordinator(3)
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, coord, zerolog.Nop())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	// Initial attempt plus 3 retries.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Equal(t, StateFailed, coord.CurrentState())
}

func TestDoWithRetry_ContextCancelDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	// Long base delay forces the cancel to land inside the backoff wait.
	coord := NewCoordinator(1000, 5, 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = DoWithRetry(ctx, ts.Client(), req, coord, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCoordinator_StateMachine(t *testing.T) {
	coord := NewCoordinator(1000, 2, 1*time.Millisecond)
	assert.Equal(t, StateIdle, coord.CurrentState())

	delay, ok := coord.ReportThrottle()
	require.True(t, ok)
	assert.Equal(t, 1*time.Millisecond, delay)

	delay, ok = coord.ReportThrottle()
	require.True(t, ok)
	assert.Equal(t, 2*time.Millisecond, delay)

	// Attempts exhausted.
	_, ok = coord.ReportThrottle()
	assert.False(t, ok)
	assert.Equal(t, StateFailed, coord.CurrentState())

	coord.ReportSuccess()
	assert.Equal(t, StateIdle, coord.CurrentState())
	assert.Equal(t, 0, coord.Attempt())
}

func TestCoordinator_AcquireFailsFastWhenExhausted(t *testing.T) {
	coord := NewCoordinator(1000, 1, 1*time.Millisecond)
	_, ok := coord.ReportThrottle()
	require.True(t, ok)
	_, ok = coord.ReportThrottle()
	require.False(t, ok)

	err := coord.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestCoordinator_BackoffWindowExpires(t *testing.T) {
	coord := NewCoordinator(1000, 5, 1*time.Millisecond)
	_, ok := coord.ReportThrottle()
	require.True(t, ok)
	assert.Equal(t, StateBackoff, coord.CurrentState())

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, StateIdle, coord.CurrentState())
}

func TestCoordinator_SharedAcrossRequests(t *testing.T) {
	// Two requests share one coordinator: a throttle observed by the
	// first delays the second.
	coord := NewCoordinator(1000, 5, 30*time.Millisecond)
	_, ok := coord.ReportThrottle()
	require.True(t, ok)

	start := time.Now()
	err := coord.Acquire(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
