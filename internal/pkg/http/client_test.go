package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scynett/momopay/internal/pkg/circuitbreaker"
	"github.com/scynett/momopay/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBody struct {
	Amount string `json:"Amount"`
}

func newTestClient(baseURL string, attempts int) *Client {
	return NewClient(Options{
		Name:     "gateway-test",
		BaseURL:  baseURL + "/",
		Username: "client-id",
		Password: "client-secret",
		Timeout:  time.Second,
		Retry:    retry.Config{Attempts: attempts, BaseDelay: time.Millisecond, Multiplier: 1},
		Breaker:  circuitbreaker.Config{FailureThreshold: 10, Timeout: time.Minute, Interval: time.Minute},
	})
}

func TestClient_PostJSON_SendsBodyAndBasicAuth(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		assert.Equal(t, "/merchants/123/receive", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body echoBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	var out echoBody
	err := newTestClient(server.URL, 1).PostJSON(context.Background(), "/merchants/123/receive", echoBody{Amount: "10.50"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "10.50", out.Amount)
}

func TestClient_GetJSON_EncodesQuery(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodGet, r.Method)
		assert.Equal(t, "ref 1", r.URL.Query().Get("clientReference"))
		_, _ = w.Write([]byte(`{"Amount":"1.00"}`))
	}))
	defer server.Close()

	var out echoBody
	err := newTestClient(server.URL, 1).GetJSON(context.Background(), "/status", url.Values{"clientReference": {"ref 1"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, "1.00", out.Amount)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(nethttp.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL, 3).GetJSON(context.Background(), "/status", nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(nethttp.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid channel"}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL, 3).PostJSON(context.Background(), "/receive", echoBody{}, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, nethttp.StatusBadRequest, httpErr.StatusCode)
	assert.JSONEq(t, `{"message":"invalid channel"}`, string(httpErr.Body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_BreakerOpensOnRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Options{
		Name:    "gateway-test",
		BaseURL: server.URL,
		Retry:   retry.Config{Attempts: 1},
		Breaker: circuitbreaker.Config{FailureThreshold: 2, Timeout: time.Minute, Interval: time.Minute},
	})

	_ = client.GetJSON(context.Background(), "/status", nil, nil)
	_ = client.GetJSON(context.Background(), "/status", nil, nil)
	err := client.GetJSON(context.Background(), "/status", nil, nil)

	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
	assert.Equal(t, circuitbreaker.StateOpen, client.BreakerState())
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: nethttp.StatusTooManyRequests}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: nethttp.StatusRequestTimeout}))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: nethttp.StatusUnauthorized}))
	assert.False(t, IsServerFailure(&HTTPError{StatusCode: nethttp.StatusTooManyRequests}))
	assert.True(t, IsServerFailure(&HTTPError{StatusCode: nethttp.StatusInternalServerError}))
}
