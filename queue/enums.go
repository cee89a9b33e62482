package queue

// QueueType is sent as the x-queue-type argument when declaring a queue.
type QueueType string

const (
	// QueueTypeClassic suits the short-lived exclusive queues of event watchers.
	QueueTypeClassic QueueType = "classic"
	// QueueTypeQuorum suits a durable audit consumer of session events.
	QueueTypeQuorum QueueType = "quorum"
)
