package distance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPResolverFetchesDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/distance", r.URL.Path)
		assert.Equal(t, "A", r.URL.Query().Get("from"))
		assert.Equal(t, "B", r.URL.Query().Get("to"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"distance_km": 512.5}`))
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL+"/", HTTPOptions{Timeout: time.Second}, nil)
	require.NoError(t, err)

	km, err := r.Distance(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 512.5, km)
}

func TestHTTPResolverRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"distance_km": 10}`))
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, HTTPOptions{Timeout: time.Second, Retries: 2, Backoff: time.Millisecond}, nil)
	require.NoError(t, err)

	km, err := r.Distance(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 10.0, km)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPResolverSendsOnceByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, HTTPOptions{Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = r.Distance(context.Background(), "A", "B")
	assert.ErrorContains(t, err, "503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPResolverStopsAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, HTTPOptions{Timeout: time.Second, Retries: 2, Backoff: time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = r.Distance(context.Background(), "A", "B")
	assert.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPResolverHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"distance_km": 3}`))
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, HTTPOptions{Timeout: time.Second, Retries: 1, Backoff: time.Millisecond}, nil)
	require.NoError(t, err)

	start := time.Now()
	km, err := r.Distance(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 3.0, km)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 2*time.Second, parseRetryAfter("2", now))
	assert.Equal(t, 10*time.Second, parseRetryAfter(now.Add(10*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, maxRetryAfter, parseRetryAfter("3600", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-3", now))
}

func TestHTTPResolverDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown station", http.StatusNotFound)
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, HTTPOptions{Timeout: time.Second, Retries: 3, Backoff: time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = r.Distance(context.Background(), "A", "B")
	assert.ErrorContains(t, err, "404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPResolverRejectsMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r, err := NewHTTPResolver(srv.URL, HTTPOptions{Timeout: time.Second, Retries: 3, Backoff: time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = r.Distance(context.Background(), "A", "B")
	assert.Error(t, err)
}

func TestHTTPResolverUsesStore(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"distance_km": 77}`))
	}))
	defer srv.Close()

	store := &memDistances{m: map[string]float64{"C|D": 5}}
	r, err := NewHTTPResolver(srv.URL, HTTPOptions{Timeout: time.Second}, store)
	require.NoError(t, err)
	ctx := context.Background()

	km, err := r.Distance(ctx, "C", "D")
	require.NoError(t, err)
	assert.Equal(t, 5.0, km)
	assert.Equal(t, int32(0), calls.Load())

	km, err = r.Distance(ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 77.0, km)
	assert.Equal(t, 1, store.puts)
	assert.Equal(t, 77.0, store.m["A|B"])
}

func TestNewHTTPResolverRequiresURL(t *testing.T) {
	_, err := NewHTTPResolver("  ", HTTPOptions{}, nil)
	assert.Error(t, err)
}

func TestNewHTTPResolverRejectsNegativeRetries(t *testing.T) {
	_, err := NewHTTPResolver("http://routing.local", HTTPOptions{Retries: -1}, nil)
	assert.Error(t, err)
}
