package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/scynett/momopay/internal/pkg/constants"
	"github.com/scynett/momopay/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "momopay")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9990)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Driver = GetEnv("DB_DRIVER", "pgx")
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 10)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 2)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// RabbitMQ config
	configs.RabbitMQ.URL = GetEnv("RABBITMQ_URL", "")
	configs.RabbitMQ.Exchange = GetEnv("RABBITMQ_EXCHANGE", "payments")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.LogsEnabled = GetEnvAsBool("NEW_RELIC_LOGS_ENABLED", false)
	configs.NewRelic.LogsEndpoint = GetEnv("NEW_RELIC_LOGS_ENDPOINT", "")
	configs.NewRelic.LogsAPIKey = GetEnv("NEW_RELIC_LOGS_API_KEY", "")
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "logs/momopay.log")
	configs.Logger.MaxSize = GetEnvAsInt64("LOG_MAX_SIZE", 100)
	configs.Logger.MaxAge = GetEnvAsInt("LOG_MAX_AGE", 7)
	configs.Logger.MaxBackups = GetEnvAsInt("LOG_MAX_BACKUPS", 3)
	configs.Logger.Compress = GetEnvAsBool("LOG_COMPRESS", true)
	configs.Logger.Type = GetEnv("LOG_TYPE", "stdout")

	// API key config
	configs.APIKey.Keys = GetEnvAsSlice("API_KEYS", nil)

	// Gateway config
	configs.Gateway.CollectionBaseURL = GetEnv("GATEWAY_COLLECTION_BASE_URL", "https://rmp.hubtel.com")
	configs.Gateway.StatusBaseURL = GetEnv("GATEWAY_STATUS_BASE_URL", "https://api-txnstatus.hubtel.com")
	configs.Gateway.ClientID = GetEnv("GATEWAY_CLIENT_ID", "")
	configs.Gateway.ClientSecret = GetEnv("GATEWAY_CLIENT_SECRET", "")
	configs.Gateway.MerchantAccountNumber = GetEnv("GATEWAY_MERCHANT_ACCOUNT_NUMBER", "")
	configs.Gateway.Timeout = GetEnvAsDuration("GATEWAY_TIMEOUT", 30*time.Second)
	configs.Gateway.RetryAttempts = GetEnvAsInt("GATEWAY_RETRY_ATTEMPTS", 3)
	configs.Gateway.RetryBaseDelay = GetEnvAsDuration("GATEWAY_RETRY_BASE_DELAY", time.Second)
	configs.Gateway.BreakerMaxRequests = uint32(GetEnvAsInt("GATEWAY_BREAKER_MAX_REQUESTS", 3))
	configs.Gateway.BreakerInterval = GetEnvAsDuration("GATEWAY_BREAKER_INTERVAL", time.Minute)
	configs.Gateway.BreakerTimeout = GetEnvAsDuration("GATEWAY_BREAKER_TIMEOUT", 30*time.Second)

	// Payments config
	configs.Payments.PosSalesIDOverride = GetEnv("PAYMENTS_POS_SALES_ID", "")
	configs.Payments.DefaultCallbackURL = GetEnv("PAYMENTS_DEFAULT_CALLBACK_URL", "")
	configs.Payments.PendingStore = strings.ToLower(GetEnv("PAYMENTS_PENDING_STORE", "memory"))
	configs.Payments.PendingSchema = GetEnv("PAYMENTS_PENDING_SCHEMA", "public")
	configs.Payments.PendingTable = GetEnv("PAYMENTS_PENDING_TABLE", "pending_transactions")
	configs.Payments.PendingAutoCreate = GetEnvAsBool("PAYMENTS_PENDING_AUTO_CREATE", true)
	configs.Payments.AuditStore = strings.ToLower(GetEnv("PAYMENTS_AUDIT_STORE", "memory"))
	configs.Payments.StrictPendingTracking = GetEnvAsBool("PAYMENTS_STRICT_PENDING_TRACKING", false)
	configs.Payments.EventBroker = strings.ToLower(GetEnv("PAYMENTS_EVENT_BROKER", "none"))
	configs.Payments.EventSubject = GetEnv("PAYMENTS_EVENT_SUBJECT", constants.SubjectPaymentFinalized)
	configs.Payments.InitiateRateLimit = GetEnvAsInt("PAYMENTS_INITIATE_RATE_LIMIT", 0)
	configs.Payments.InitiateRatePeriod = GetEnvAsDuration("PAYMENTS_INITIATE_RATE_PERIOD", time.Minute)

	// Worker config
	configs.Worker.Enabled = GetEnvAsBool("WORKER_ENABLED", true)
	configs.Worker.PollInterval = GetEnvAsDuration("WORKER_POLL_INTERVAL", time.Minute)
	configs.Worker.BatchSize = GetEnvAsInt("WORKER_BATCH_SIZE", 200)
	configs.Worker.CallbackGracePeriod = GetEnvAsDuration("WORKER_CALLBACK_GRACE_PERIOD", 5*time.Minute)

	// Cleanup config
	configs.Cleanup.Enabled = GetEnvAsBool("CLEANUP_ENABLED", true)
	configs.Cleanup.Retention = GetEnvAsDuration("CLEANUP_RETENTION", 30*24*time.Hour)
	configs.Cleanup.Interval = GetEnvAsDuration("CLEANUP_INTERVAL", 6*time.Hour)

	// Audit config
	configs.Audit.KeyPrefix = GetEnv("AUDIT_KEY_PREFIX", constants.KeyCallbackAuditPrefix)
	configs.Audit.ProcessingLease = GetEnvAsDuration("AUDIT_PROCESSING_LEASE", 2*time.Minute)
	configs.Audit.Retention = GetEnvAsDuration("AUDIT_RETENTION", 30*24*time.Hour)

	// Callback config
	configs.Callback.EnableValidation = GetEnvAsBool("CALLBACK_ENABLE_VALIDATION", false)
	configs.Callback.SharedSecret = GetEnv("CALLBACK_SHARED_SECRET", "")
	configs.Callback.SecretHeader = GetEnv("CALLBACK_SECRET_HEADER", "X-Callback-Secret")
	configs.Callback.AllowedCIDRs = GetEnvAsSlice("CALLBACK_ALLOWED_CIDRS", nil)

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsDuration accepts Go duration strings ("90s", "6h"). A bare integer is read as seconds.
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsSlice splits a comma separated value, dropping blank items
func GetEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
