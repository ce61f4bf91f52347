package events

import (
	"sync/atomic"
	"time"
)

// Metrics tracks broker statistics using atomic operations for thread-safety
type Metrics struct {
	EventsPublished atomic.Int64
	EventsDropped   atomic.Int64
	Subscribers     atomic.Int32
	StartTime       time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// IncEventsPublished increments the events published counter
func (m *Metrics) IncEventsPublished() {
	m.EventsPublished.Add(1)
}

// IncEventsDropped increments the dropped events counter
func (m *Metrics) IncEventsDropped() {
	m.EventsDropped.Add(1)
}

// SetSubscribers sets the current subscriber count
func (m *Metrics) SetSubscribers(count int32) {
	m.Subscribers.Store(count)
}

// Snapshot is a point-in-time copy of the counters, suitable for JSON output
type Snapshot struct {
	EventsPublished int64   `json:"eventsPublished"`
	EventsDropped   int64   `json:"eventsDropped"`
	Subscribers     int32   `json:"subscribers"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`
}

// Snapshot reads all counters
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		EventsPublished: m.EventsPublished.Load(),
		EventsDropped:   m.EventsDropped.Load(),
		Subscribers:     m.Subscribers.Load(),
		UptimeSeconds:   time.Since(m.StartTime).Seconds(),
	}
}
