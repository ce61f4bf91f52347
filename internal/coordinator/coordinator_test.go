package coordinator

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/kanban/internal/board"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

var errBoom = &models.TransportError{Op: "test", StatusCode: 500, Err: errors.New("boom")}

type recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *recorder) observe(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

func (r *recorder) states(m *Mutation) []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []State
	for _, rep := range r.reports {
		if rep.Mutation == m {
			out = append(out, rep.State)
		}
	}
	return out
}

// setup returns a loaded coordinator over a fake gateway
func setup(t *testing.T, opts ...Option) (*Coordinator, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	gw.seedTask(models.Task{ID: "t-done", Title: "Shipped", Status: models.ColumnDone})
	gw.seedTask(models.Task{ID: "t-1", Title: "Plan", Status: models.ColumnTodo})

	c := New(board.New(), gw, opts...)
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	return c, gw
}

// requireIntact fails when a task references a column the store lacks
func requireIntact(t *testing.T, s *board.Store) {
	t.Helper()
	for _, task := range s.Tasks() {
		require.True(t, s.HasColumn(task.Status), "task %s has status %q", task.ID, task.Status)
	}
}

func wait(t *testing.T, m *Mutation) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	select {
	case <-m.Done():
		return m.Err()
	case <-ctx.Done():
		t.Fatalf("mutation %s on %s did not settle", m.Kind(), m.EntityID())
		return nil
	}
}

func collect(c *Coordinator, column string) []string {
	var out []string
	for task := range c.Store().TasksInColumn(column) {
		out = append(out, task.Title)
	}
	return out
}

// ============================================================================
// TEST CASES
// ============================================================================

func TestLoad(t *testing.T) {
	t.Parallel()
	c, _ := setup(t)

	assert.Len(t, c.Store().Columns(), 3)
	assert.Equal(t, []string{"Plan"}, collect(c, models.ColumnTodo))
	assert.Equal(t, []string{"Shipped"}, collect(c, models.ColumnDone))
}

func TestCreateAndMove_EndToEnd(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	c, gw := setup(t, WithObserver(rec.observe))
	ctx := context.Background()

	gw.hold()
	m, err := c.CreateTask(ctx, "Buy milk", models.ColumnTodo)
	require.NoError(t, err)

	// shown immediately at the front under a placeholder
	front := c.Store().Tasks()[0]
	assert.Equal(t, "Buy milk", front.Title)
	assert.Equal(t, m.EntityID(), front.ID)
	assert.Equal(t, Pending, m.State())

	gw.release()
	require.NoError(t, wait(t, m))
	assert.Equal(t, Committed, m.State())
	assert.Equal(t, []State{Pending, Committed}, rec.states(m))

	created := m.Task()
	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, created.ID, c.Store().Tasks()[0].ID)
	_, stillPlaceholder := c.Store().Task(m.EntityID())
	assert.False(t, stillPlaceholder)

	mv, err := c.MoveTask(ctx, created.ID, models.ColumnInProgress)
	require.NoError(t, err)
	require.NoError(t, wait(t, mv))

	assert.NotContains(t, collect(c, models.ColumnTodo), "Buy milk")
	assert.Contains(t, collect(c, models.ColumnInProgress), "Buy milk")
	requireIntact(t, c.Store())
	assert.Zero(t, c.Pending())
}

func TestCreateTask_Validation(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	_, err := c.CreateTask(ctx, "   ", models.ColumnTodo)
	assert.ErrorIs(t, err, models.ErrEmptyTitle)

	_, err = c.CreateTask(ctx, "Task", "archive")
	assert.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = c.CreateTask(ctx, "Task", models.ColumnDone)
	assert.ErrorIs(t, err, models.ErrCreateInDone)
	assert.True(t, models.IsValidation(err))

	assert.Empty(t, gw.callLog())
	assert.Len(t, c.Store().Tasks(), 2)
}

func TestCreateTask_FailureRemovesPlaceholder(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	c, gw := setup(t, WithObserver(rec.observe))
	gw.failNext("create task", errBoom)

	m, err := c.CreateTask(context.Background(), "Doomed", models.ColumnTodo)
	require.NoError(t, err)
	err = wait(t, m)

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Failed, m.State())
	assert.Equal(t, []State{Pending, Failed}, rec.states(m))
	assert.NotContains(t, collect(c, models.ColumnTodo), "Doomed")

	retry, err := m.Retry(context.Background())
	require.NoError(t, err)
	require.NoError(t, wait(t, retry))
	assert.Contains(t, collect(c, models.ColumnTodo), "Doomed")
}

func TestEditTitle(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)

	m, err := c.EditTitle(context.Background(), "t-1", "  Plan sprint ")
	require.NoError(t, err)
	require.NoError(t, wait(t, m))

	got, _ := c.Store().Task("t-1")
	assert.Equal(t, "Plan sprint", got.Title)
	srv, _ := gw.task("t-1")
	assert.Equal(t, "Plan sprint", srv.Title)
}

func TestEditTitle_WhitespaceOnlyLeavesTitle(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)

	_, err := c.EditTitle(context.Background(), "t-1", " \t ")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	got, _ := c.Store().Task("t-1")
	assert.Equal(t, "Plan", got.Title)
	assert.Empty(t, gw.callLog())
}

func TestEditTitle_UnchangedIsNoop(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)

	m, err := c.EditTitle(context.Background(), "t-1", "Plan ")
	require.NoError(t, err)
	assert.Equal(t, Committed, m.State())
	assert.Empty(t, gw.callLog())
}

func TestEditTitle_RollbackOnFailure(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	c, gw := setup(t, WithObserver(rec.observe))
	gw.hold()
	gw.failNext("update task", errBoom)

	m, err := c.EditTitle(context.Background(), "t-1", "Renamed")
	require.NoError(t, err)

	pending, _ := c.Store().Task("t-1")
	assert.Equal(t, "Renamed", pending.Title)

	gw.release()
	err = wait(t, m)
	require.Error(t, err)
	assert.True(t, models.IsTransport(err))

	rolledBack, _ := c.Store().Task("t-1")
	assert.Equal(t, "Plan", rolledBack.Title)
	assert.Equal(t, []State{Pending, Failed}, rec.states(m))
}

func TestMoveTask_Rules(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	_, err := c.MoveTask(ctx, "t-done", models.ColumnTodo)
	assert.ErrorIs(t, err, models.ErrTransitionNotAllowed)

	_, err = c.MoveTask(ctx, "t-1", "archive")
	assert.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = c.MoveTask(ctx, "missing", models.ColumnDone)
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	m, err := c.MoveTask(ctx, "t-1", models.ColumnTodo)
	require.NoError(t, err)
	assert.Equal(t, Committed, m.State())

	assert.Empty(t, gw.callLog())

	m, err = c.MoveTask(ctx, "t-1", models.ColumnDone)
	require.NoError(t, err)
	require.NoError(t, wait(t, m))
	assert.Equal(t, []string{"Plan", "Shipped"}, collect(c, models.ColumnDone))
}

func TestMoveTask_ServerConflictRollsBack(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	gw.failNext("update task", &models.ConflictError{Op: "update task", Err: models.ErrTransitionNotAllowed})

	m, err := c.MoveTask(context.Background(), "t-1", models.ColumnInProgress)
	require.NoError(t, err)
	err = wait(t, m)
	assert.True(t, models.IsConflict(err))

	got, _ := c.Store().Task("t-1")
	assert.Equal(t, models.ColumnTodo, got.Status)
}

func TestDeleteTask_Confirmation(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	_, err := c.DeleteTask(ctx, "t-1", "del")
	assert.ErrorIs(t, err, models.ErrConfirmationMismatch)
	_, ok := c.Store().Task("t-1")
	assert.True(t, ok)
	assert.Empty(t, gw.callLog())

	m, err := c.DeleteTask(ctx, "t-1", " Delete ")
	require.NoError(t, err)
	require.NoError(t, wait(t, m))
	_, ok = c.Store().Task("t-1")
	assert.False(t, ok)
	_, ok = gw.task("t-1")
	assert.False(t, ok)
}

func TestDeleteTask_RollbackRestoresPosition(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	before := c.Store().Tasks()
	gw.failNext("delete task", errBoom)

	m, err := c.DeleteTask(context.Background(), "t-1", "delete")
	require.NoError(t, err)
	require.Error(t, wait(t, m))

	assert.Equal(t, before, c.Store().Tasks())
}

func TestDeleteTask_AlreadyGoneOnServer(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	gw.failNext("delete task", &models.TransportError{Op: "delete task", StatusCode: 404, Err: models.ErrTaskNotFound})

	m, err := c.DeleteTask(context.Background(), "t-1", "delete")
	require.NoError(t, err)
	require.NoError(t, wait(t, m))
	assert.Equal(t, Committed, m.State())
}

func TestColumns(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	m, err := c.CreateColumn(ctx, " Review ", "")
	require.NoError(t, err)
	require.NoError(t, wait(t, m))
	col := m.Column()
	assert.Equal(t, "Review", col.DisplayTitle)
	assert.Equal(t, models.DefaultColumnColor, col.Color)
	assert.True(t, c.Store().HasColumn(col.ID))

	task, err := c.CreateTask(ctx, "Check PR", col.ID)
	require.NoError(t, err)
	require.NoError(t, wait(t, task))

	del, err := c.DeleteColumn(ctx, col.ID)
	require.NoError(t, err)
	require.NoError(t, wait(t, del))
	assert.False(t, c.Store().HasColumn(col.ID))
	_, ok := c.Store().Task(task.Task().ID)
	assert.False(t, ok, "tasks go with their column")
	requireIntact(t, c.Store())
	assert.Contains(t, gw.callLog(), "delete column")
}

func TestDeleteColumn_FixedIsNoop(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)

	m, err := c.DeleteColumn(context.Background(), models.ColumnDone)
	require.NoError(t, err)
	assert.Equal(t, Committed, m.State())
	assert.True(t, c.Store().HasColumn(models.ColumnDone))
	assert.Equal(t, []string{"Shipped"}, collect(c, models.ColumnDone))
	assert.Empty(t, gw.callLog())
}

func TestDeleteColumn_RollbackRestoresTasks(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	cm, err := c.CreateColumn(ctx, "Blocked", "#ff0000")
	require.NoError(t, err)
	require.NoError(t, wait(t, cm))
	tm, err := c.CreateTask(ctx, "Stuck", cm.Column().ID)
	require.NoError(t, err)
	require.NoError(t, wait(t, tm))
	before := c.Store().Snapshot()

	gw.failNext("delete column", errBoom)
	m, err := c.DeleteColumn(ctx, cm.Column().ID)
	require.NoError(t, err)
	require.Error(t, wait(t, m))

	assert.Equal(t, before, c.Store().Snapshot())
	assert.Equal(t, []string{"Stuck"}, collect(c, cm.Column().ID))
}

func TestLastSubmittedWins(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	gw.hold()
	first, err := c.EditTitle(ctx, "t-1", "A")
	require.NoError(t, err)
	second, err := c.EditTitle(ctx, "t-1", "B")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Pending())

	got, _ := c.Store().Task("t-1")
	assert.Equal(t, "B", got.Title)

	gw.release()
	require.NoError(t, wait(t, first))
	require.NoError(t, wait(t, second))

	got, _ = c.Store().Task("t-1")
	assert.Equal(t, "B", got.Title)
	srv, _ := gw.task("t-1")
	assert.Equal(t, "B", srv.Title)
}

func TestEarlierFailureDoesNotClobberLaterEdit(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	gw.hold()
	gw.failNext("update task", errBoom)
	first, err := c.EditTitle(ctx, "t-1", "A")
	require.NoError(t, err)
	second, err := c.EditTitle(ctx, "t-1", "B")
	require.NoError(t, err)
	gw.release()

	require.Error(t, wait(t, first))
	require.NoError(t, wait(t, second))

	got, _ := c.Store().Task("t-1")
	assert.Equal(t, "B", got.Title)
}

func TestLaterFailureRollsBackToConfirmed(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	gw.hold()
	first, err := c.EditTitle(ctx, "t-1", "A")
	require.NoError(t, err)
	gw.failNext("update task", nil) // first call succeeds
	gw.failNext("update task", errBoom)
	second, err := c.EditTitle(ctx, "t-1", "B")
	require.NoError(t, err)
	gw.release()

	require.NoError(t, wait(t, first))
	require.Error(t, wait(t, second))

	got, _ := c.Store().Task("t-1")
	assert.Equal(t, "A", got.Title, "rollback goes to the last value the server confirmed")
}

func TestEditWhileCreatePending(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	gw.hold()
	create, err := c.CreateTask(ctx, "Draft", models.ColumnTodo)
	require.NoError(t, err)
	edit, err := c.EditTitle(ctx, create.EntityID(), "Final")
	require.NoError(t, err)
	move, err := c.MoveTask(ctx, create.EntityID(), models.ColumnInProgress)
	require.NoError(t, err)
	gw.release()

	require.NoError(t, wait(t, create))
	require.NoError(t, wait(t, edit))
	require.NoError(t, wait(t, move))

	serverID := create.Task().ID
	got, ok := c.Store().Task(serverID)
	require.True(t, ok)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, models.ColumnInProgress, got.Status)
	assert.Len(t, c.Store().Tasks(), 3)

	srv, _ := gw.task(serverID)
	assert.Equal(t, "Final", srv.Title)
	assert.Equal(t, []string{"create task", "update task", "update task"}, gw.callLog())
}

func TestEditAfterFailedCreate(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	gw.hold()
	gw.failNext("create task", errBoom)
	create, err := c.CreateTask(ctx, "Draft", models.ColumnTodo)
	require.NoError(t, err)
	edit, err := c.EditTitle(ctx, create.EntityID(), "Final")
	require.NoError(t, err)
	gw.release()

	require.Error(t, wait(t, create))
	err = wait(t, edit)
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	assert.Len(t, c.Store().Tasks(), 2)
	assert.Equal(t, []string{"create task"}, gw.callLog())
}

func TestTimeoutFailsWithTransportError(t *testing.T) {
	t.Parallel()
	c, gw := setup(t, WithTimeout(30*time.Millisecond))
	gw.hold()
	defer gw.release()

	m, err := c.MoveTask(context.Background(), "t-1", models.ColumnInProgress)
	require.NoError(t, err)
	err = wait(t, m)

	assert.True(t, models.IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	got, _ := c.Store().Task("t-1")
	assert.Equal(t, models.ColumnTodo, got.Status)
}

func TestMutationOutlivesCallerContext(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	gw.hold()
	m, err := c.EditTitle(ctx, "t-1", "Kept")
	require.NoError(t, err)
	cancel()
	gw.release()

	require.NoError(t, wait(t, m))
	srv, _ := gw.task("t-1")
	assert.Equal(t, "Kept", srv.Title)
}

func TestLoadKeepsPendingValues(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	gw.hold()
	edit, err := c.EditTitle(ctx, "t-1", "Optimistic")
	require.NoError(t, err)
	create, err := c.CreateTask(ctx, "New", models.ColumnTodo)
	require.NoError(t, err)

	_, err = c.Load(ctx)
	require.NoError(t, err)

	got, _ := c.Store().Task("t-1")
	assert.Equal(t, "Optimistic", got.Title)
	_, ok := c.Store().Task(create.EntityID())
	assert.True(t, ok)

	gw.release()
	require.NoError(t, wait(t, edit))
	require.NoError(t, wait(t, create))
	assert.Len(t, c.Store().Tasks(), 3)
}

func TestLoadKeepsPendingColumnDelete(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	cm, err := c.CreateColumn(ctx, "Blocked", "")
	require.NoError(t, err)
	require.NoError(t, wait(t, cm))
	blocked := cm.Column().ID
	tm, err := c.CreateTask(ctx, "Stuck", blocked)
	require.NoError(t, err)
	require.NoError(t, wait(t, tm))

	gw.hold()
	del, err := c.DeleteColumn(ctx, blocked)
	require.NoError(t, err)

	// the server still has the column while the delete is held
	_, err = c.Load(ctx)
	require.NoError(t, err)
	assert.False(t, c.Store().HasColumn(blocked))
	assert.Empty(t, collect(c, blocked))
	requireIntact(t, c.Store())

	gw.release()
	require.NoError(t, wait(t, del))
	assert.Equal(t, Committed, del.State())
	assert.False(t, c.Store().HasColumn(blocked))
	_, ok := c.Store().Task(tm.Task().ID)
	assert.False(t, ok)
	assert.Zero(t, c.Pending())
}

func TestMoveOutOfDeletedColumnRemovesTask(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	cm, err := c.CreateColumn(ctx, "Blocked", "")
	require.NoError(t, err)
	require.NoError(t, wait(t, cm))
	blocked := cm.Column().ID
	tm, err := c.CreateTask(ctx, "Stuck", blocked)
	require.NoError(t, err)
	require.NoError(t, wait(t, tm))
	id := tm.Task().ID

	gw.holdOp("update task")
	move, err := c.MoveTask(ctx, id, models.ColumnTodo)
	require.NoError(t, err)
	del, err := c.DeleteColumn(ctx, blocked)
	require.NoError(t, err)
	require.NoError(t, wait(t, del))

	// the server dropped the task with its column
	_, onServer := gw.task(id)
	require.False(t, onServer)
	got, ok := c.Store().Task(id)
	require.True(t, ok, "move is still showing")
	assert.Equal(t, models.ColumnTodo, got.Status)

	gw.releaseOp("update task")
	err = wait(t, move)
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	_, ok = c.Store().Task(id)
	assert.False(t, ok)
	assert.NotContains(t, collect(c, models.ColumnTodo), "Stuck")
	requireIntact(t, c.Store())
	assert.Zero(t, c.Pending())
}

func TestEditOfTaskDeletedElsewhereRemovesTask(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	gw.holdOp("update task")
	edit, err := c.EditTitle(ctx, "t-1", "Renamed")
	require.NoError(t, err)
	require.NoError(t, gw.DeleteTask(ctx, "t-1"))
	gw.releaseOp("update task")

	assert.ErrorIs(t, wait(t, edit), models.ErrTaskNotFound)
	_, ok := c.Store().Task("t-1")
	assert.False(t, ok)
	assert.Equal(t, []string{"Shipped"}, collect(c, models.ColumnDone))
}

func TestRollbackIntoDeletedColumnRemovesTask(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	cm, err := c.CreateColumn(ctx, "Blocked", "")
	require.NoError(t, err)
	require.NoError(t, wait(t, cm))
	blocked := cm.Column().ID
	tm, err := c.CreateTask(ctx, "Stuck", blocked)
	require.NoError(t, err)
	require.NoError(t, wait(t, tm))
	id := tm.Task().ID

	// a failure unrelated to the task's existence still cannot restore it
	// into a column that is gone
	gw.holdOp("update task")
	gw.failNext("update task", errBoom)
	move, err := c.MoveTask(ctx, id, models.ColumnTodo)
	require.NoError(t, err)
	del, err := c.DeleteColumn(ctx, blocked)
	require.NoError(t, err)
	require.NoError(t, wait(t, del))
	gw.releaseOp("update task")

	require.Error(t, wait(t, move))
	_, ok := c.Store().Task(id)
	assert.False(t, ok)
	requireIntact(t, c.Store())
}

func TestRetryRequiresFailure(t *testing.T) {
	t.Parallel()
	c, _ := setup(t)

	m, err := c.EditTitle(context.Background(), "t-1", "Other")
	require.NoError(t, err)
	require.NoError(t, wait(t, m))

	_, err = m.Retry(context.Background())
	assert.ErrorIs(t, err, ErrNotFailed)
}

func TestMutationWait_ContextCancelled(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	gw.hold()
	defer gw.release()

	m, err := c.EditTitle(context.Background(), "t-1", "Slow")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Wait(ctx), context.DeadlineExceeded)
}

func TestWatchReloadsOnBoardChange(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	src := &chanSource{ch: make(chan events.Event, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, src) }()

	gw.seedTask(models.Task{ID: "remote", Title: "From elsewhere", Status: models.ColumnInProgress})
	src.ch <- events.Event{Type: events.EventTaskCreated, EntityID: "remote", SequenceID: 1}

	assert.Eventually(t, func() bool {
		_, ok := c.Store().Task("remote")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchIgnoresPings(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	src := &chanSource{ch: make(chan events.Event, 2)}
	src.ch <- events.Event{Type: events.EventPing}
	close(src.ch)

	loadsBefore := gw.listCalls
	require.NoError(t, c.Watch(context.Background(), src))
	assert.Equal(t, loadsBefore, gw.listCalls)
}

func TestBoardIntegrityAcrossMixedOperations(t *testing.T) {
	t.Parallel()
	c, gw := setup(t)
	ctx := context.Background()

	colM, err := c.CreateColumn(ctx, "Review", "")
	require.NoError(t, err)
	require.NoError(t, wait(t, colM))
	review := colM.Column().ID

	var pending []*Mutation
	add := func(m *Mutation, err error) {
		require.NoError(t, err)
		pending = append(pending, m)
		requireIntact(t, c.Store())
	}

	gw.hold()
	gw.failNext("update task", errBoom)
	add(c.CreateTask(ctx, "a", review))
	add(c.CreateTask(ctx, "b", models.ColumnTodo))
	add(c.MoveTask(ctx, "t-1", review))
	add(c.EditTitle(ctx, "t-1", "Plan v2"))
	add(c.DeleteColumn(ctx, review))
	add(c.DeleteTask(ctx, "t-done", "DELETE"))
	gw.release()

	for _, m := range pending {
		_ = wait(t, m)
		requireIntact(t, c.Store())
	}
	assert.Zero(t, c.Pending())

	for task := range c.Store().TasksInColumn(review) {
		t.Errorf("task %s survived its column", task.ID)
	}
	assert.False(t, slices.ContainsFunc(c.Store().Tasks(), func(task models.Task) bool { return task.ID == "t-done" }))
}
