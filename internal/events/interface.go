package events

import "context"

// EventPublisher defines the interface for publishing board change events.
// Services depend on this rather than on the broker so tests can swap it out.
type EventPublisher interface {
	// Publish queues an event for every current subscriber
	Publish(event Event) error
}

// EventSource is anything that can stream events to a subscriber
type EventSource interface {
	// Subscribe returns a channel of events and a function that ends the subscription
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
}

// Compile-time verification that *Broker implements both sides
var (
	_ EventPublisher = (*Broker)(nil)
	_ EventSource    = (*Broker)(nil)
)
