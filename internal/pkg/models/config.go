package models

import "time"

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	RabbitMQ RabbitMQConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
	APIKey   APIKeyConfig
	Gateway  GatewayConfig
	Payments PaymentsConfig
	Worker   WorkerConfig
	Cleanup  CleanupConfig
	Audit    AuditConfig
	Callback CallbackConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// RabbitMQConfig contains RabbitMQ connection configuration
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey   string
	AppName      string
	Enabled      bool
	LogsEnabled  bool
	LogsEndpoint string
	LogsAPIKey   string
	ForwardLogs  bool
}

// LoggerConfig contains zap logger configuration
type LoggerConfig struct {
	Level      string
	FilePath   string
	MaxSize    int64
	MaxAge     int
	MaxBackups int
	Compress   bool
	Type       string // "stdout", "file" or "both"
}

// APIKeyConfig holds the keys accepted on /internal routes
type APIKeyConfig struct {
	Keys []string
}

// GatewayConfig contains the mobile money gateway client configuration
type GatewayConfig struct {
	CollectionBaseURL     string
	StatusBaseURL         string
	ClientID              string
	ClientSecret          string
	MerchantAccountNumber string
	Timeout               time.Duration
	RetryAttempts         int
	RetryBaseDelay        time.Duration
	BreakerMaxRequests    uint32
	BreakerInterval       time.Duration
	BreakerTimeout        time.Duration
}

// PaymentsConfig holds behaviour switches for the payment processors
type PaymentsConfig struct {
	// PosSalesIDOverride takes precedence over Gateway.MerchantAccountNumber
	PosSalesIDOverride    string
	DefaultCallbackURL    string
	PendingStore          string // memory | postgres
	PendingSchema         string
	PendingTable          string
	PendingAutoCreate     bool
	AuditStore            string // memory | redis
	StrictPendingTracking bool
	EventBroker           string // none | nats | rabbitmq
	EventSubject          string
	// InitiateRateLimit caps initiations per client IP per InitiateRatePeriod. Zero disables it.
	InitiateRateLimit  int
	InitiateRatePeriod time.Duration
}

// WorkerConfig tunes the reconciliation loop
type WorkerConfig struct {
	Enabled             bool
	PollInterval        time.Duration
	BatchSize           int
	CallbackGracePeriod time.Duration
}

// CleanupConfig tunes the pending ledger retention loop
type CleanupConfig struct {
	Enabled   bool
	Retention time.Duration
	Interval  time.Duration
}

// AuditConfig tunes the callback audit ledger
type AuditConfig struct {
	KeyPrefix       string
	ProcessingLease time.Duration
	Retention       time.Duration
}

// CallbackConfig controls the callback source guard
type CallbackConfig struct {
	EnableValidation bool
	SharedSecret     string
	SecretHeader     string
	AllowedCIDRs     []string
}
