// Package events publishes finalized-payment notifications to the configured broker.
package events

import (
	"context"

	"github.com/scynett/momopay/internal/pkg/models"
)

// NoopGateway drops events. Used when no broker is configured.
type NoopGateway struct{}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{}
}

func (NoopGateway) PublishPaymentFinalized(ctx context.Context, event models.PaymentEvent) error {
	return nil
}
