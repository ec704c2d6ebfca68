package handler

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/middleware"
	"github.com/scynett/momopay/internal/pkg/models"
	"github.com/scynett/momopay/services/payments"
	httpHandler "github.com/scynett/momopay/services/payments/handler/http"
)

// Handler wires the payments HTTP handlers onto echo
type Handler struct {
	paymentsHTTP *httpHandler.PaymentsHandler
	cfg          *models.Config
	redisClient  *redis.Client
}

// NewHandler creates the payments handler. redisClient may be nil, which disables rate limiting.
func NewHandler(paymentUC payments.PaymentUC, cfg *models.Config, redisClient *redis.Client) *Handler {
	return &Handler{
		paymentsHTTP: httpHandler.NewPaymentsHandler(paymentUC),
		cfg:          cfg,
		redisClient:  redisClient,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Internal routes for merchant back-ends and operators (API key required)
	internal := e.Group("/internal", middleware.ValidateAPIKey(h.cfg.APIKey.Keys))

	internalPayments := internal.Group("/payments")
	internalPayments.POST("/initiate", h.paymentsHTTP.Initiate, h.initiateMiddleware()...)
	internalPayments.GET("/status", h.paymentsHTTP.Status)
	internalPayments.GET("/pending", h.paymentsHTTP.Pending)

	// Gateway webhook, authenticated by the callback guard instead of an API key
	e.POST("/payments/callback", h.paymentsHTTP.Callback, middleware.CallbackGuard(h.cfg.Callback))
}

func (h *Handler) initiateMiddleware() []echo.MiddlewareFunc {
	if h.redisClient == nil || h.cfg.Payments.InitiateRateLimit <= 0 {
		return nil
	}
	return []echo.MiddlewareFunc{
		middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RedisClient: h.redisClient,
			Key:         "initiate",
			Limit:       h.cfg.Payments.InitiateRateLimit,
			Period:      h.cfg.Payments.InitiateRatePeriod,
		}),
	}
}
