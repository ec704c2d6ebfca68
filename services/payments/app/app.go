package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/scynett/momopay/internal/pkg/constants"
	"github.com/scynett/momopay/internal/pkg/database"
	"github.com/scynett/momopay/internal/pkg/health"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/models"
	natspkg "github.com/scynett/momopay/internal/pkg/nats"
	"github.com/scynett/momopay/internal/pkg/rabbitmq"
	"github.com/scynett/momopay/services/payments"
	"github.com/scynett/momopay/services/payments/gateway/events"
	gatewayhttp "github.com/scynett/momopay/services/payments/gateway/http"
	"github.com/scynett/momopay/services/payments/repository"
	"github.com/scynett/momopay/services/payments/usecase"
)

// Storage and broker backends selectable through configuration
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	BrokerNone     = "none"
	BrokerNATS     = "nats"
	BrokerRabbitMQ = "rabbitmq"
)

// Components holds the connected clients and the payment layers built on top of them.
// Clients for backends that are not configured stay nil.
type Components struct {
	Postgres *database.PostgresClient
	Redis    *database.RedisClient
	NATS     *natspkg.Client
	RabbitMQ *rabbitmq.Client

	PendingRepo payments.PendingRepo
	AuditRepo   payments.AuditRepo
	ProviderGW  payments.ProviderGW
	EventGW     payments.EventGW
	PaymentUC   payments.PaymentUC
}

// Build connects the configured backends and assembles the payment use case.
// On error every client opened so far is closed.
func Build(ctx context.Context, cfg *models.Config, clientName string) (c *Components, err error) {
	c = &Components{}
	defer func() {
		if err != nil {
			c.Close()
			c = nil
		}
	}()

	if err = c.buildPendingRepo(ctx, cfg); err != nil {
		return c, err
	}
	if err = c.buildAuditRepo(cfg); err != nil {
		return c, err
	}
	if err = c.buildEventGW(cfg, clientName); err != nil {
		return c, err
	}

	c.ProviderGW = gatewayhttp.NewHubtelGateway(cfg.Gateway)

	c.PaymentUC, err = usecase.NewPaymentUC(cfg, c.PendingRepo, c.AuditRepo, c.ProviderGW, c.EventGW)
	if err != nil {
		return c, fmt.Errorf("failed to initialize payment use case: %w", err)
	}

	return c, nil
}

func (c *Components) buildPendingRepo(ctx context.Context, cfg *models.Config) error {
	switch cfg.Payments.PendingStore {
	case "", StoreMemory:
		c.PendingRepo = repository.NewMemoryPendingRepo()
	case StorePostgres:
		postgresClient, err := database.NewPostgresClient(cfg.Database)
		if err != nil {
			return err
		}
		c.Postgres = postgresClient

		repo := repository.NewPostgresPendingRepo(postgresClient.GetDB(), cfg.Payments.PendingSchema, cfg.Payments.PendingTable)
		if cfg.Payments.PendingAutoCreate {
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
		}
		c.PendingRepo = repo
	default:
		return fmt.Errorf("unsupported pending store %q", cfg.Payments.PendingStore)
	}

	logger.Info("Pending ledger initialized", logger.String("store", cfg.Payments.PendingStore))
	return nil
}

func (c *Components) buildAuditRepo(cfg *models.Config) error {
	switch cfg.Payments.AuditStore {
	case "", StoreMemory:
		c.AuditRepo = repository.NewMemoryAuditRepo(cfg.Audit)
	case StoreRedis:
		redisClient, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			return err
		}
		c.Redis = redisClient
		c.AuditRepo = repository.NewRedisAuditRepo(redisClient.GetClient(), cfg.Audit)
	default:
		return fmt.Errorf("unsupported audit store %q", cfg.Payments.AuditStore)
	}

	logger.Info("Callback audit ledger initialized", logger.String("store", cfg.Payments.AuditStore))
	return nil
}

func (c *Components) buildEventGW(cfg *models.Config, clientName string) error {
	switch cfg.Payments.EventBroker {
	case "", BrokerNone:
		c.EventGW = events.NewNoopGateway()
	case BrokerNATS:
		natsClient, err := natspkg.NewClient(cfg.NATS.URL, clientName)
		if err != nil {
			return err
		}
		c.NATS = natsClient
		c.EventGW = events.NewNATSGateway(natsClient, cfg.Payments.EventSubject)
	case BrokerRabbitMQ:
		rabbitClient, err := rabbitmq.NewClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		c.RabbitMQ = rabbitClient
		c.EventGW = events.NewRabbitMQGateway(rabbitClient.Channel, rabbitClient.Exchange, constants.RoutingKeyPaymentFinalized)
	default:
		return fmt.Errorf("unsupported event broker %q", cfg.Payments.EventBroker)
	}

	logger.Info("Payment event publisher initialized", logger.String("broker", cfg.Payments.EventBroker))
	return nil
}

// RedisClient returns the Redis client when the Redis audit ledger is in use
func (c *Components) RedisClient() *redis.Client {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.GetClient()
}

// RegisterHealthCheckers adds a checker for every connected backend
func (c *Components) RegisterHealthCheckers(hs *health.HealthService) {
	if c.Postgres != nil {
		hs.AddChecker("postgres", health.NewPingChecker(c.Postgres))
	}
	if c.Redis != nil {
		hs.AddChecker("redis", health.NewPingChecker(c.Redis))
	}
	if c.NATS != nil {
		hs.AddChecker("nats", health.NewConnectionChecker("nats", c.NATS))
	}
	if c.RabbitMQ != nil {
		hs.AddChecker("rabbitmq", health.NewConnectionChecker("rabbitmq", c.RabbitMQ))
	}
}

// Close releases every connected client
func (c *Components) Close() {
	if c.NATS != nil {
		logger.Info("Closing NATS connection...")
		c.NATS.Close()
	}
	if c.RabbitMQ != nil {
		logger.Info("Closing RabbitMQ connection...")
		if err := c.RabbitMQ.Close(); err != nil {
			logger.Error("Error closing RabbitMQ connection", logger.Err(err))
		}
	}
	if c.Redis != nil {
		logger.Info("Closing Redis connection...")
		if err := c.Redis.Close(); err != nil {
			logger.Error("Error closing Redis connection", logger.Err(err))
		}
	}
	if c.Postgres != nil {
		logger.Info("Closing PostgreSQL connection...")
		if err := c.Postgres.Close(); err != nil {
			logger.Error("Error closing PostgreSQL connection", logger.Err(err))
		}
	}
}
