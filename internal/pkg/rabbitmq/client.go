package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client holds one AMQP connection and the channel used for publishing
type Client struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
	Exchange   string
}

// NewClient dials url, opens a channel and declares a durable topic exchange
func NewClient(url, exchange string) (*Client, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = connection.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Client{Connection: connection, Channel: channel, Exchange: exchange}, nil
}

// IsConnected reports whether the underlying connection is open
func (c *Client) IsConnected() bool {
	return c.Connection != nil && !c.Connection.IsClosed()
}

// Close closes the channel and then the connection
func (c *Client) Close() error {
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Connection != nil && !c.Connection.IsClosed() {
		return c.Connection.Close()
	}
	return nil
}
