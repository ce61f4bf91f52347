package events

import (
	"log/slog"
	"time"
)

// Publish sends an event through publisher, tolerating a nil publisher
// (tests and servers running without live updates).
// Failures are logged and swallowed: a missed notification never fails the
// write that caused it.
func Publish(publisher EventPublisher, eventType EventType, entityID string) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}); err != nil {
		slog.Warn("failed to publish event",
			"event_type", eventType,
			"entity_id", entityID,
			"error", err)
	}
}
