package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/scynett/momopay/internal/pkg/logger"
	"github.com/scynett/momopay/internal/pkg/metrics"
	"github.com/scynett/momopay/internal/pkg/models"
)

// AMQPChannel is the part of *amqp.Channel used for publishing
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQGateway publishes payment events to a topic exchange
type RabbitMQGateway struct {
	channel    AMQPChannel
	exchange   string
	routingKey string
}

// NewRabbitMQGateway creates a new RabbitMQ event gateway
func NewRabbitMQGateway(channel AMQPChannel, exchange, routingKey string) *RabbitMQGateway {
	return &RabbitMQGateway{
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
	}
}

// PublishPaymentFinalized publishes a persistent JSON message keyed by the event id
func (g *RabbitMQGateway) PublishPaymentFinalized(ctx context.Context, event models.PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}

	if err := g.channel.PublishWithContext(ctx, g.exchange, g.routingKey, false, false, msg); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("rabbitmq", "error").Inc()
		return fmt.Errorf("failed to publish payment event to %s: %w", g.exchange, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues("rabbitmq", "ok").Inc()
	logger.DebugCtx(ctx, "Published payment event",
		logger.String("exchange", g.exchange),
		logger.String("routing_key", g.routingKey),
		logger.String("transaction_id", event.TransactionID))
	return nil
}
