package coordinator

import (
	"context"
	"errors"
	"sync"

	"github.com/thenoetrevino/kanban/internal/models"
)

// State is where a mutation is in its lifecycle
type State int

const (
	Idle State = iota
	Pending
	Committed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Kind names the user action behind a mutation
type Kind string

const (
	KindCreateTask   Kind = "create_task"
	KindEditTitle    Kind = "edit_title"
	KindMoveTask     Kind = "move_task"
	KindDeleteTask   Kind = "delete_task"
	KindCreateColumn Kind = "create_column"
	KindDeleteColumn Kind = "delete_column"
)

// ErrNotFailed is returned by Retry on a mutation that did not fail
var ErrNotFailed = errors.New("only failed mutations can be retried")

// Mutation tracks one optimistic change from submission to reconciliation
type Mutation struct {
	kind     Kind
	entityID string

	mu     sync.Mutex
	state  State
	err    error
	task   models.Task
	column models.Column

	done  chan struct{}
	retry func(ctx context.Context) (*Mutation, error)
}

func newMutation(kind Kind, entityID string) *Mutation {
	return &Mutation{kind: kind, entityID: entityID, done: make(chan struct{})}
}

// settled returns a mutation that committed without a remote call
func settled(kind Kind, entityID string) *Mutation {
	m := newMutation(kind, entityID)
	m.state = Committed
	close(m.done)
	return m
}

// Kind returns the action that produced the mutation
func (m *Mutation) Kind() Kind { return m.kind }

// EntityID is the task or column the mutation targets. For a task create
// this is the local placeholder ID.
func (m *Mutation) EntityID() string { return m.entityID }

func (m *Mutation) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err is the failure cause once the mutation has failed
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Task is the canonical server record after a task mutation commits
func (m *Mutation) Task() models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task
}

// Column is the canonical server record after a column create commits
func (m *Mutation) Column() models.Column {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.column
}

// Done is closed once the mutation is Committed or Failed
func (m *Mutation) Done() <-chan struct{} { return m.done }

// Wait blocks until the mutation settles and returns its error
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry resubmits the same action after a failure
func (m *Mutation) Retry(ctx context.Context) (*Mutation, error) {
	if m.State() != Failed || m.retry == nil {
		return nil, ErrNotFailed
	}
	return m.retry(ctx)
}

func (m *Mutation) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Mutation) setTask(task models.Task) {
	m.mu.Lock()
	m.task = task
	m.mu.Unlock()
}

func (m *Mutation) setColumn(col models.Column) {
	m.mu.Lock()
	m.column = col
	m.mu.Unlock()
}

// settle records the outcome. Done stays open until release.
func (m *Mutation) settle(err error) {
	m.mu.Lock()
	if err != nil {
		m.state = Failed
		m.err = err
	} else {
		m.state = Committed
	}
	m.mu.Unlock()
}

func (m *Mutation) release() { close(m.done) }

// Report is delivered to observers on every state change
type Report struct {
	Mutation *Mutation
	State    State
	Err      error
}
