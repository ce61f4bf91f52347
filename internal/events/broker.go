package events

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"
)

// ErrBrokerClosed is returned when publishing to or subscribing on a closed broker
var ErrBrokerClosed = errors.New("event broker closed")

// subscriber is one live event stream
type subscriber struct {
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		close(s.send)
	})
}

// Broker fans board change events out to subscribers.
// Sends never block: a subscriber whose queue is full misses the event.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	closed      bool

	sequence   int64 // guarded by mu
	bufferSize int
	metrics    *Metrics
}

// getEnvInt reads an integer from an environment variable, returning defaultVal if not set or invalid
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewBroker creates a broker. The per-subscriber queue size comes from
// KANBAN_EVENT_BUFFER (default 16).
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[*subscriber]struct{}),
		bufferSize:  getEnvInt("KANBAN_EVENT_BUFFER", 16),
		metrics:     NewMetrics(),
	}
}

// Publish stamps the event with the next sequence number and queues it for every subscriber
func (b *Broker) Publish(event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}

	b.sequence++
	event.SequenceID = b.sequence
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	b.metrics.IncEventsPublished()

	for sub := range b.subscribers {
		select {
		case sub.send <- event:
		default:
			b.metrics.IncEventsDropped()
			slog.Warn("subscriber queue full, event dropped",
				"event_type", event.Type,
				"sequence_id", event.SequenceID)
		}
	}
	return nil
}

// Subscribe registers a new subscriber. The subscription ends when ctx is
// done or the returned cancel function is called; the channel is then closed.
func (b *Broker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	sub := &subscriber{
		send: make(chan Event, b.bufferSize),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, nil, ErrBrokerClosed
	}
	b.subscribers[sub] = struct{}{}
	b.metrics.SetSubscribers(int32(len(b.subscribers)))
	b.mu.Unlock()

	cancel := func() { b.remove(sub) }

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-sub.done:
		}
	}()

	return sub.send, cancel, nil
}

// Subscribers returns the number of live subscribers
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Metrics exposes the broker counters
func (b *Broker) Metrics() *Metrics {
	return b.metrics
}

// Close ends every subscription and rejects further use
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subscribers {
		sub.close()
		delete(b.subscribers, sub)
	}
	b.metrics.SetSubscribers(0)
}

func (b *Broker) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	sub.close()
	b.metrics.SetSubscribers(int32(len(b.subscribers)))
}
