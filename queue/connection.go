package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewConnection creates a new AMQP connection and channel using the provided configuration.
func NewConnection(config ConnectionConfig) (*Connection, error) {
	// Establish a connection to the AMQP server
	conn, err := amqp.Dial(config.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	// Open a new channel over the connection
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &Connection{conn, ch}, nil
}

// DeclareExchange declares the exchange events are published to.
func (c *Connection) DeclareExchange(cfg ExchangeConfig) error {
	kind := cfg.Kind
	if kind == "" {
		kind = amqp.ExchangeTopic
	}
	return c.Ch.ExchangeDeclare(cfg.Name, kind, cfg.Durable, false, false, false, nil)
}

// DeclareQueue declares a queue and, when exchange is set, binds it with
// routingKey.
func (c *Connection) DeclareQueue(cfg QueueConfig, exchange, routingKey string) (amqp.Queue, error) {
	args := amqp.Table{}
	for k, v := range cfg.Args {
		args[k] = v
	}
	if cfg.Type != "" {
		args["x-queue-type"] = string(cfg.Type)
	}

	q, err := c.Ch.QueueDeclare(cfg.Name, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, false, args)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare queue %q: %w", cfg.Name, err)
	}

	if exchange != "" {
		if err := c.Ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			return amqp.Queue{}, fmt.Errorf("failed to bind queue %q: %w", q.Name, err)
		}
	}
	return q, nil
}

func (c *Connection) Close() error {
	if c.Ch != nil {
		_ = c.Ch.Close()
	}
	return c.Conn.Close()
}
