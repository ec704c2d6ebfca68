package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
)

// NATSPublisher interface for publishing messages
type NATSPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSGateway publishes payment events to a NATS subject
type NATSGateway struct {
	publisher NATSPublisher
	subject   string
}

// NewNATSGateway creates a new NATS event gateway
func NewNATSGateway(publisher NATSPublisher, subject string) *NATSGateway {
	return &NATSGateway{
		publisher: publisher,
		subject:   subject,
	}
}

// PublishPaymentFinalized publishes a payment.finalized event
func (g *NATSGateway) PublishPaymentFinalized(ctx context.Context, event models.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	if err := g.publisher.Publish(g.subject, data); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("nats", "error").Inc()
		return fmt.Errorf("failed to publish payment event: %w", err)
	}

	metrics.EventsPublishedTotal.WithLabelValues("nats", "ok").Inc()
	logger.DebugCtx(ctx, "Published payment event",
		logger.String("subject", g.subject),
		logger.String("transaction_id", event.TransactionID))
	return nil
}
