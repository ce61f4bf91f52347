package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventTaskCreated   EventType = "task_created"
	EventTaskUpdated   EventType = "task_updated"
	EventTaskDeleted   EventType = "task_deleted"
	EventColumnCreated EventType = "column_created"
	EventColumnDeleted EventType = "column_deleted"
	EventPing          EventType = "ping"
)

// Event represents a board change notification
type Event struct {
	Type       EventType `json:"type"`
	EntityID   string    `json:"entityId,omitempty"` // task or column ID
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequenceId"` // monotonically increasing, assigned by the broker
}

// IsBoardChange reports whether the event means the board contents changed
func (e Event) IsBoardChange() bool {
	return e.Type != EventPing && e.Type != ""
}
