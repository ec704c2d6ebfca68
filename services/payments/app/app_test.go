package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/health"
	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/services/payments/gateway/events"
	"github.com/scynett/momopay/services/payments/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_MemoryDefaults(t *testing.T) {
	cfg := &models.Config{}
	cfg.Audit.ProcessingLease = time.Minute

	c, err := Build(context.Background(), cfg, "momopay-test")
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &repository.MemoryPendingRepo{}, c.PendingRepo)
	assert.IsType(t, &repository.MemoryAuditRepo{}, c.AuditRepo)
	assert.IsType(t, &events.NoopGateway{}, c.EventGW)
	assert.NotNil(t, c.PaymentUC)
	assert.Nil(t, c.RedisClient())
}

func TestBuild_RedisAuditStore(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &models.Config{}
	cfg.Payments.AuditStore = StoreRedis
	cfg.Redis.Host = mr.Host()
	_, err := fmt.Sscan(mr.Port(), &cfg.Redis.Port)
	require.NoError(t, err)

	c, err := Build(context.Background(), cfg, "momopay-test")
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &repository.RedisAuditRepo{}, c.AuditRepo)
	assert.NotNil(t, c.RedisClient())

	hs := health.NewHealthService()
	c.RegisterHealthCheckers(hs)
	e := echo.New()
	health.RegisterEnhancedHealthEndpoints(e, "momopay", "test", hs)

	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"redis"`)
}

func TestBuild_RejectsUnknownBackends(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *models.Config)
	}{
		{"pending store", func(cfg *models.Config) { cfg.Payments.PendingStore = "mongo" }},
		{"audit store", func(cfg *models.Config) { cfg.Payments.AuditStore = "etcd" }},
		{"event broker", func(cfg *models.Config) { cfg.Payments.EventBroker = "kafka" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.Config{}
			tt.mutate(cfg)

			c, err := Build(context.Background(), cfg, "momopay-test")

			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}
