package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consume starts delivering messages from cfg.Queue. The channel is closed
// when ctx ends or the connection drops.
func (c *Connection) Consume(ctx context.Context, cfg ConsumeConfig) (<-chan amqp.Delivery, error) {
	return c.Ch.ConsumeWithContext(
		ctx,
		cfg.Queue,
		cfg.Consumer,
		cfg.AutoAck,
		cfg.Exclusive,
		false,
		false,
		nil,
	)
}
