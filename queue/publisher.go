package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel a publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

type publisher struct {
	ch     Channel
	config PublishConfig
}

func NewPublisher(ch Channel, config PublishConfig) Publisher {
	if config.ContentType == "" {
		config.ContentType = "application/json"
	}
	if config.DeliveryMode == 0 {
		config.DeliveryMode = amqp.Persistent
	}
	return &publisher{ch, config}
}

// Publish publishes a message to the specified exchange and routing key.
func (p *publisher) Publish(ctx context.Context, body []byte) error {
	message := amqp.Publishing{
		ContentType:  p.config.ContentType,  // content type
		Body:         body,                  // message body
		DeliveryMode: p.config.DeliveryMode, // delivery mode
	}

	return p.ch.PublishWithContext(
		ctx,                 // context
		p.config.Exchange,   // exchange
		p.config.RoutingKey, // routing key
		false,               // mandatory
		false,               // immediate
		message,
	)
}

// Close closes the publisher, releasing any resources it holds.
func (p *publisher) Close() error {
	return p.ch.Close()
}
