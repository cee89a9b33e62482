package queue

type ConnectionConfig struct {
	// URI: The RabbitMQ connection URI, which includes the address, port, and authentication credentials if necessary
	URI string
}

type ExchangeConfig struct {
	// Name: The name of the exchange session events are published to.
	Name string
	// Kind: direct, fanout, topic or headers. Defaults to topic.
	Kind    string
	Durable bool
}

type QueueConfig struct {
	// Name: The name of the queue to be declared and used for message exchange.
	Name string
	// Type: The x-queue-type of the queue. Empty leaves the broker default.
	Type QueueType
	// Durable: Indicates whether the queue should be durable (persistent) or not.
	Durable bool
	// AutoDelete: Indicates whether the queue should be automatically deleted when it is no longer in use.
	AutoDelete bool
	// Exclusive: Indicates whether the queue should be exclusive to the connection that declares it.
	Exclusive bool
	// Args: Additional x-arguments, e.g. `x-message-ttl` or `x-max-length`.
	Args map[string]interface{}
}

type PublishConfig struct {
	// Exchange: The name of the exchange to be used for message publishing.
	Exchange string
	// RoutingKey: The routing key to be used for message publishing.
	RoutingKey string
	// ContentType: The content type of the message to be published.
	// The default value is "application/json".
	ContentType string
	// DeliveryMode: The delivery mode of the message to be published.
	// 1 = transient (amqp.Transient)
	// 2 = persistent (amqp.Persistent)
	DeliveryMode uint8
}

type ConsumeConfig struct {
	// Queue: The name of the queue from which to consume messages.
	Queue string
	// Consumer: The name of the consumer.
	Consumer string
	// AutoAck: Whether the consumer should automatically acknowledge messages.
	AutoAck bool
	// Exclusive: Whether the consumer should be exclusive to the connection that declares it.
	Exclusive bool
}

// See https://www.rabbitmq.com/tutorials/amqp-concepts-tutorial.html
