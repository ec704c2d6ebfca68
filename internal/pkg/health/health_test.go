package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type fakeConn struct{ connected bool }

func (f fakeConn) IsConnected() bool { return f.connected }

func newTestEcho(service *HealthService) *echo.Echo {
	e := echo.New()
	RegisterEnhancedHealthEndpoints(e, "momopay", "1.0.0", service)
	e.GET("/ping", NewPingHandler("momopay"))
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoints_Healthy(t *testing.T) {
	service := NewHealthService()
	service.AddChecker("postgres", NewPingChecker(fakePinger{}))
	service.AddChecker("nats", NewConnectionChecker("nats", fakeConn{connected: true}))
	e := newTestEcho(service)

	detailed := get(e, "/health/detailed")
	require.Equal(t, http.StatusOK, detailed.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(detailed.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "momopay", response.Service)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Len(t, response.Dependencies, 2)

	assert.Equal(t, http.StatusOK, get(e, "/health").Code)
	assert.Equal(t, http.StatusOK, get(e, "/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(e, "/health/live").Code)
}

func TestHealthEndpoints_Unhealthy(t *testing.T) {
	service := NewHealthService()
	service.AddChecker("redis", NewPingChecker(fakePinger{err: errors.New("connection refused")}))
	service.AddChecker("rabbitmq", NewConnectionChecker("rabbitmq", fakeConn{}))
	e := newTestEcho(service)

	detailed := get(e, "/health/detailed")
	require.Equal(t, http.StatusServiceUnavailable, detailed.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(detailed.Body.Bytes(), &response))
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "connection refused", response.Dependencies["redis"].Error)
	assert.Equal(t, "rabbitmq not connected", response.Dependencies["rabbitmq"].Error)

	assert.Equal(t, http.StatusServiceUnavailable, get(e, "/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(e, "/health/live").Code)
}

func TestNilDependenciesAreSkipped(t *testing.T) {
	assert.NoError(t, NewPingChecker(nil).CheckHealth(context.Background()))
	assert.NoError(t, NewConnectionChecker("nats", nil).CheckHealth(context.Background()))
}

func TestPingHandler(t *testing.T) {
	t.Setenv("VERSION", "v1.2.3")
	e := newTestEcho(NewHealthService())

	rec := get(e, "/ping")

	require.Equal(t, http.StatusOK, rec.Code)
	var info BuildInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "momopay", info.ServiceName)
}
