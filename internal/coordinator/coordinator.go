// Package coordinator applies board changes to the local store immediately,
// sends them to the remote store, and then either reconciles the local copy
// with the server's record or rolls it back.
//
// Mutations that target the same task or column run their remote calls one
// at a time in submission order, so the last submitted change is the one
// the board ends up showing.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/thenoetrevino/kanban/internal/board"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/gateway"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/transition"
)

// DefaultTimeout bounds every remote call
const DefaultTimeout = 10 * time.Second

const placeholderPrefix = "local-"

// Coordinator is the only writer of the board store after the initial load
type Coordinator struct {
	store     *board.Store
	gw        gateway.Gateway
	validator *transition.Validator
	timeout   time.Duration
	observers []func(Report)
	logger    *slog.Logger

	mu    sync.Mutex
	lanes map[string]*lane
	// placeholder task ID -> server ID, kept while the placeholder's lane is busy
	aliases map[string]string
	// server ID -> placeholder task ID
	reverse map[string]string

	loads singleflight.Group
}

// lane serializes the remote calls for one task or column
type lane struct {
	key     string
	tail    <-chan struct{}
	pending int

	// last value the server confirmed for a task lane
	confirmed taskSnapshot
	// column a pending delete has taken off the board
	removesColumn string
}

type taskSnapshot struct {
	task    models.Task
	index   int
	present bool
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithTimeout bounds each remote call. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithValidator replaces the default transition rules
func WithValidator(v *transition.Validator) Option {
	return func(c *Coordinator) {
		c.validator = v
	}
}

// WithObserver registers a callback for every mutation state change.
// Observers run on the goroutine that changed the state and must not block.
func WithObserver(fn func(Report)) Option {
	return func(c *Coordinator) {
		c.observers = append(c.observers, fn)
	}
}

// WithLogger sets the logger for the coordinator
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// New creates a coordinator that owns store writes and talks to gw
func New(store *board.Store, gw gateway.Gateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		gw:        gw,
		validator: transition.Default(),
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		lanes:     make(map[string]*lane),
		aliases:   make(map[string]string),
		reverse:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the board store the coordinator writes to
func (c *Coordinator) Store() *board.Store { return c.store }

// Validator returns the transition rules in force
func (c *Coordinator) Validator() *transition.Validator { return c.validator }

// Pending reports how many mutations are still waiting on the server
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lanes {
		n += l.pending
	}
	return n
}

// Load fetches the whole board and replaces the store contents. Concurrent
// calls share one request. Tasks and columns with mutations still in flight
// keep their optimistic values.
func (c *Coordinator) Load(ctx context.Context) (models.Board, error) {
	v, err, _ := c.loads.Do("board", func() (any, error) {
		callCtx, cancel := c.callContext(ctx)
		defer cancel()

		b, err := c.gw.List(callCtx)
		if err != nil {
			return models.Board{}, err
		}
		c.replace(b)
		return b, nil
	})
	if err != nil {
		return models.Board{}, fmt.Errorf("failed to load board: %w", err)
	}
	return v.(models.Board), nil
}

func (c *Coordinator) replace(b models.Board) {
	c.mu.Lock()
	defer c.mu.Unlock()

	server := make(map[string]models.Task, len(b.Tasks))
	for _, task := range b.Tasks {
		server[task.ID] = task
	}

	// optimistic values of tasks that still have mutations in flight
	var overlays []taskSnapshot
	var removed []string
	for _, l := range c.lanes {
		if l.pending == 0 {
			continue
		}
		if l.removesColumn != "" {
			removed = append(removed, l.removesColumn)
			continue
		}
		id, ok := strings.CutPrefix(l.key, taskKeyPrefix)
		if !ok {
			continue
		}
		id = c.storeIDLocked(id)
		overlays = append(overlays, c.snapshotLocked(id))

		if task, ok := server[id]; ok {
			l.confirmed = taskSnapshot{task: task, present: true}
		} else if !isPlaceholder(id) {
			l.confirmed = taskSnapshot{task: models.Task{ID: id}}
		}
	}

	if dropped := c.store.ReplaceAll(b.Tasks, b.Columns); dropped > 0 {
		c.logger.Warn("dropped tasks referencing unknown columns", "count", dropped)
	}

	for _, snap := range overlays {
		c.restoreLocked(snap)
	}
	// the server may not have seen these deletes yet
	for _, id := range removed {
		c.store.RemoveColumn(id)
	}
}

// Watch reloads the board every time source reports a change, until ctx is
// cancelled or the source closes its stream
func (c *Coordinator) Watch(ctx context.Context, source events.EventSource) error {
	ch, unsubscribe, err := source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to board events: %w", err)
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if !event.IsBoardChange() {
				continue
			}
			c.logger.Debug("board changed remotely", "type", event.Type, "entity", event.EntityID, "seq", event.SequenceID)
			if _, err := c.Load(ctx); err != nil {
				c.logger.Warn("reload after board event failed", "error", err)
			}
		}
	}
}

// callContext derives the context for one remote call. Mutations keep
// running after the caller's context ends so their rollback always happens;
// the timeout is what bounds them.
func (c *Coordinator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
}

func (c *Coordinator) notify(m *Mutation) {
	if len(c.observers) == 0 {
		return
	}
	r := Report{Mutation: m, State: m.State(), Err: m.Err()}
	for _, fn := range c.observers {
		fn(r)
	}
}

// step describes one queued mutation. commit and fail run under c.mu with
// last set when no later mutation waits in the same lane.
type step struct {
	m *Mutation
	// key names the lane; task steps set taskID instead and the lane is
	// resolved at submission
	key    string
	taskID string
	apply  func(l *lane)
	remote func(ctx context.Context) error
	commit func(l *lane, last bool)
	fail   func(l *lane, last bool, err error)
}

// submit applies the optimistic change and queues the remote call behind
// any earlier mutation in the same lane
func (c *Coordinator) submit(ctx context.Context, s step) *Mutation {
	c.mu.Lock()
	key := s.key
	if s.taskID != "" {
		key = c.laneKeyLocked(s.taskID)
	}
	l, ok := c.lanes[key]
	if !ok {
		l = &lane{key: key}
		if s.taskID != "" {
			l.confirmed = c.snapshotLocked(s.taskID)
		}
		c.lanes[key] = l
	}
	if s.apply != nil {
		s.apply(l)
	}
	prev := l.tail
	l.tail = s.m.done
	l.pending++
	s.m.setState(Pending)
	c.mu.Unlock()

	c.notify(s.m)
	c.logger.Debug("mutation pending", "kind", s.m.kind, "entity", s.m.entityID)

	go c.run(ctx, s, l, prev)
	return s.m
}

func (c *Coordinator) run(ctx context.Context, s step, l *lane, prev <-chan struct{}) {
	if prev != nil {
		<-prev
	}

	callCtx, cancel := c.callContext(ctx)
	err := s.remote(callCtx)
	cancel()
	if err != nil && !models.IsTransport(err) && errors.Is(err, context.DeadlineExceeded) {
		err = &models.TransportError{Op: string(s.m.kind), Err: err}
	}

	c.mu.Lock()
	l.pending--
	last := l.pending == 0
	if err == nil {
		if s.commit != nil {
			s.commit(l, last)
		}
	} else if s.fail != nil {
		s.fail(l, last, err)
	}
	if last && c.lanes[l.key] == l {
		delete(c.lanes, l.key)
		if id, ok := strings.CutPrefix(l.key, taskKeyPrefix); ok {
			if serverID, aliased := c.aliases[id]; aliased {
				delete(c.aliases, id)
				delete(c.reverse, serverID)
			}
		}
	}
	c.mu.Unlock()

	s.m.settle(err)
	if err != nil {
		c.logger.Warn("mutation failed", "kind", s.m.kind, "entity", s.m.entityID, "error", err)
	} else {
		c.logger.Debug("mutation committed", "kind", s.m.kind, "entity", s.m.entityID)
	}
	// observers hear about the outcome before waiters are released
	c.notify(s.m)
	s.m.release()
}
