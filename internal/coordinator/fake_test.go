package coordinator

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/transition"
)

// fakeGateway is an in-memory remote store. Mutating calls can be held
// behind a gate and made to fail on demand.
type fakeGateway struct {
	mu        sync.Mutex
	tasks     []models.Task
	columns   []models.Column
	nextID    int
	calls     []string
	failures  map[string][]error
	gate      chan struct{}
	opGates   map[string]chan struct{}
	listCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		columns:  models.DefaultColumns(),
		failures: make(map[string][]error),
		opGates:  make(map[string]chan struct{}),
	}
}

// hold makes mutating calls block until release is called
func (f *fakeGateway) hold() {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.mu.Unlock()
}

func (f *fakeGateway) release() {
	f.mu.Lock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
	f.mu.Unlock()
}

// holdOp blocks only calls of op until releaseOp is called
func (f *fakeGateway) holdOp(op string) {
	f.mu.Lock()
	f.opGates[op] = make(chan struct{})
	f.mu.Unlock()
}

func (f *fakeGateway) releaseOp(op string) {
	f.mu.Lock()
	if gate, ok := f.opGates[op]; ok {
		close(gate)
		delete(f.opGates, op)
	}
	f.mu.Unlock()
}

// failNext queues an error for the next call of op
func (f *fakeGateway) failNext(op string, err error) {
	f.mu.Lock()
	f.failures[op] = append(f.failures[op], err)
	f.mu.Unlock()
}

func (f *fakeGateway) seedTask(task models.Task) {
	f.mu.Lock()
	f.tasks = append([]models.Task{task}, f.tasks...)
	f.mu.Unlock()
}

func (f *fakeGateway) task(id string) (models.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, false
	}
	return f.tasks[i], true
}

func (f *fakeGateway) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// enter records the call, waits on the gate and pops a queued failure
func (f *fakeGateway) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	gates := []chan struct{}{f.gate, f.opGates[op]}
	f.mu.Unlock()

	for _, gate := range gates {
		if gate == nil {
			continue
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if queued := f.failures[op]; len(queued) > 0 {
		f.failures[op] = queued[1:]
		return queued[0]
	}
	return nil
}

func (f *fakeGateway) List(ctx context.Context) (models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return models.Board{Tasks: slices.Clone(f.tasks), Columns: slices.Clone(f.columns)}, nil
}

func (f *fakeGateway) CreateTask(ctx context.Context, title, status string) (models.Task, error) {
	if err := f.enter(ctx, "create task"); err != nil {
		return models.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := models.Task{ID: fmt.Sprintf("srv-%d", f.nextID), Title: title, Status: status}
	f.tasks = append([]models.Task{task}, f.tasks...)
	return task, nil
}

func (f *fakeGateway) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if err := f.enter(ctx, "update task"); err != nil {
		return models.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, &models.TransportError{Op: "update task", StatusCode: 404, Err: models.ErrTaskNotFound}
	}
	if patch.Status != nil && !transition.CanMove(f.tasks[i].Status, *patch.Status) {
		return models.Task{}, &models.ConflictError{Op: "update task", Err: models.ErrTransitionNotAllowed}
	}
	f.tasks[i] = patch.Apply(f.tasks[i])
	return f.tasks[i], nil
}

func (f *fakeGateway) DeleteTask(ctx context.Context, id string) error {
	if err := f.enter(ctx, "delete task"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = slices.DeleteFunc(f.tasks, func(t models.Task) bool { return t.ID == id })
	return nil
}

func (f *fakeGateway) CreateColumn(ctx context.Context, displayTitle, color string) (models.Column, error) {
	if err := f.enter(ctx, "create column"); err != nil {
		return models.Column{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	col := models.Column{ID: fmt.Sprintf("col-%d", len(f.columns)), DisplayTitle: displayTitle, Color: color, Position: len(f.columns)}
	f.columns = append(f.columns, col)
	return col, nil
}

func (f *fakeGateway) DeleteColumn(ctx context.Context, id string) error {
	if err := f.enter(ctx, "delete column"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.columns = slices.DeleteFunc(f.columns, func(c models.Column) bool { return c.ID == id })
	f.tasks = slices.DeleteFunc(f.tasks, func(t models.Task) bool { return t.Status == id })
	return nil
}

// chanSource is an EventSource fed by the test
type chanSource struct {
	ch chan events.Event
}

func (s *chanSource) Subscribe(ctx context.Context) (<-chan events.Event, func(), error) {
	return s.ch, func() {}, nil
}
