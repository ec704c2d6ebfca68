package payments

import (
	"context"

	"github.com/scynett/momopay/internal/pkg/models"
)

// ProviderGW defines the interface for the mobile-money gateway API
//
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/scynett/momopay/services/payments ProviderGW,EventGW
type ProviderGW interface {
	Initiate(ctx context.Context, req models.GatewayInitiateRequest) (*models.GatewayInitiateResponse, error)
	CheckStatus(ctx context.Context, query models.StatusQuery) (*models.GatewayStatusResponse, error)
}

// EventGW publishes payment lifecycle events
type EventGW interface {
	PublishPaymentFinalized(ctx context.Context, event models.PaymentEvent) error
}
