package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg := loadConfigFromEnv()

	assert.Equal(t, "https://rmp.hubtel.com", cfg.Gateway.CollectionBaseURL)
	assert.Equal(t, "https://api-txnstatus.hubtel.com", cfg.Gateway.StatusBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 3, cfg.Gateway.RetryAttempts)
	assert.Equal(t, time.Minute, cfg.Worker.PollInterval)
	assert.Equal(t, 200, cfg.Worker.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Worker.CallbackGracePeriod)
	assert.True(t, cfg.Cleanup.Enabled)
	assert.Equal(t, 30*24*time.Hour, cfg.Cleanup.Retention)
	assert.Equal(t, 6*time.Hour, cfg.Cleanup.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Audit.ProcessingLease)
	assert.Equal(t, "memory", cfg.Payments.PendingStore)
	assert.Equal(t, "memory", cfg.Payments.AuditStore)
	assert.Equal(t, "X-Callback-Secret", cfg.Callback.SecretHeader)
	assert.False(t, cfg.Payments.StrictPendingTracking)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("WORKER_POLL_INTERVAL", "30s")
	t.Setenv("WORKER_BATCH_SIZE", "50")
	t.Setenv("CLEANUP_RETENTION", "86400")
	t.Setenv("PAYMENTS_PENDING_STORE", "Postgres")
	t.Setenv("PAYMENTS_STRICT_PENDING_TRACKING", "true")
	t.Setenv("CALLBACK_ALLOWED_CIDRS", "10.0.0.0/8, ,192.168.1.10")
	t.Setenv("API_KEYS", "k1,k2")

	cfg := loadConfigFromEnv()

	assert.Equal(t, 30*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, 50, cfg.Worker.BatchSize)
	assert.Equal(t, 24*time.Hour, cfg.Cleanup.Retention)
	assert.Equal(t, "postgres", cfg.Payments.PendingStore)
	assert.True(t, cfg.Payments.StrictPendingTracking)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.Callback.AllowedCIDRs)
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKey.Keys)
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "soon")
	t.Setenv("TEST_SLICE", " , ")

	assert.Equal(t, 7, GetEnvAsInt("TEST_INT", 7))
	assert.True(t, GetEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, time.Hour, GetEnvAsDuration("TEST_DURATION", time.Hour))
	assert.Equal(t, []string{"x"}, GetEnvAsSlice("TEST_SLICE", []string{"x"}))
}
