package queue

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/octabyte/bm-health-portal/models"
)

// SessionPublisher sends session lifecycle events to RabbitMQ. It satisfies
// session.Notifier.
type SessionPublisher struct {
	publisher Publisher
}

func NewSessionPublisher(ch Channel, config PublishConfig) *SessionPublisher {
	return &SessionPublisher{publisher: NewPublisher(ch, config)}
}

func (s *SessionPublisher) Notify(ctx context.Context, event models.SessionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode session event: %w", err)
	}
	if err := s.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("publish session event %s: %w", event.Type, err)
	}
	return nil
}

func (s *SessionPublisher) Close() error {
	return s.publisher.Close()
}

// DecodeSessionEvent parses a delivery body produced by SessionPublisher.
func DecodeSessionEvent(body []byte) (models.SessionEvent, error) {
	var event models.SessionEvent
	err := json.Unmarshal(body, &event)
	return event, err
}
