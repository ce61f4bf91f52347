package coordinator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/kanban/internal/models"
)

const taskKeyPrefix = "task:"

func isPlaceholder(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

// CreateTask shows the new task at the front of the board under a local
// placeholder ID and swaps in the server's record once it is created.
// Tasks start in any column except done.
func (c *Coordinator) CreateTask(ctx context.Context, title, status string) (*Mutation, error) {
	title, err := models.NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	if status == models.ColumnDone {
		return nil, &models.ValidationError{Field: "status", Err: models.ErrCreateInDone}
	}
	if !c.store.HasColumn(status) {
		return nil, &models.ValidationError{Field: "status", Err: models.ErrUnknownColumn}
	}

	placeholder := placeholderPrefix + uuid.NewString()
	now := time.Now().UTC()
	local := models.Task{ID: placeholder, Title: title, Status: status, CreatedAt: now, UpdatedAt: now}

	m := newMutation(KindCreateTask, placeholder)
	m.task = local
	m.retry = func(ctx context.Context) (*Mutation, error) {
		return c.CreateTask(ctx, title, status)
	}

	return c.submit(ctx, step{
		m:      m,
		taskID: placeholder,
		apply: func(*lane) {
			if err := c.store.UpsertTask(local); err != nil {
				c.logger.Debug("optimistic create not applied", "error", err)
			}
		},
		remote: func(ctx context.Context) error {
			task, err := c.gw.CreateTask(ctx, title, status)
			if err != nil {
				return err
			}
			m.setTask(task)
			return nil
		},
		commit: func(l *lane, last bool) {
			task := m.Task()
			c.aliases[placeholder] = task.ID
			c.reverse[task.ID] = placeholder

			write := task
			if cur, ok := c.store.Task(placeholder); ok {
				if !last {
					// a later edit or move is still showing its optimistic value
					write.Title = cur.Title
					write.Status = cur.Status
				}
				if err := c.store.SwapTask(placeholder, write); err != nil {
					c.logger.Debug("created task no longer fits the board", "id", task.ID, "error", err)
				}
			}
			l.confirmed = c.confirmedLocked(task)
		},
		fail: func(l *lane, last bool, _ error) {
			if last {
				c.restoreLocked(l.confirmed)
			}
		},
	}), nil
}

// EditTitle renames a task. Titles that are blank after trimming are
// rejected without touching the store or the server.
func (c *Coordinator) EditTitle(ctx context.Context, id, title string) (*Mutation, error) {
	title, err := models.NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	cur, ok := c.store.Task(id)
	if !ok {
		return nil, &models.ValidationError{Field: "id", Err: models.ErrTaskNotFound}
	}
	if cur.Title == title {
		m := settled(KindEditTitle, id)
		m.task = cur
		return m, nil
	}

	m := newMutation(KindEditTitle, id)
	m.retry = func(ctx context.Context) (*Mutation, error) {
		return c.EditTitle(ctx, id, title)
	}
	return c.submitPatch(ctx, m, id, models.TitlePatch(title)), nil
}

// MoveTask changes a task's column after checking the transition rules.
// Moving a task to the column it is already in is a no-op.
func (c *Coordinator) MoveTask(ctx context.Context, id, dest string) (*Mutation, error) {
	cur, ok := c.store.Task(id)
	if !ok {
		return nil, &models.ValidationError{Field: "id", Err: models.ErrTaskNotFound}
	}
	if cur.Status == dest {
		m := settled(KindMoveTask, id)
		m.task = cur
		return m, nil
	}
	if !c.store.HasColumn(dest) {
		return nil, &models.ValidationError{Field: "status", Err: models.ErrUnknownColumn}
	}
	if err := c.validator.Check(cur.Status, dest); err != nil {
		return nil, err
	}

	m := newMutation(KindMoveTask, id)
	m.retry = func(ctx context.Context) (*Mutation, error) {
		return c.MoveTask(ctx, id, dest)
	}
	return c.submitPatch(ctx, m, id, models.StatusPatch(dest)), nil
}

func (c *Coordinator) submitPatch(ctx context.Context, m *Mutation, id string, patch models.TaskPatch) *Mutation {
	return c.submit(ctx, step{
		m:      m,
		taskID: id,
		apply: func(*lane) {
			if cur, ok := c.store.Task(id); ok {
				if err := c.store.UpsertTask(patch.Apply(cur)); err != nil {
					c.logger.Debug("optimistic update not applied", "id", id, "error", err)
				}
			}
		},
		remote: func(ctx context.Context) error {
			remoteID, ok := c.resolve(id)
			if !ok {
				return &models.ConflictError{Op: "update task", Err: models.ErrTaskNotFound}
			}
			task, err := c.gw.UpdateTask(ctx, remoteID, patch)
			if err != nil {
				return err
			}
			m.setTask(task)
			return nil
		},
		commit: func(l *lane, last bool) {
			task := m.Task()
			l.confirmed = c.confirmedLocked(task)
			if last {
				c.writeTaskLocked(task)
			}
		},
		fail: func(l *lane, last bool, err error) {
			if errors.Is(err, models.ErrTaskNotFound) {
				// gone on the server, usually with a deleted column
				l.confirmed = taskSnapshot{task: models.Task{ID: l.confirmed.task.ID}}
			}
			if last {
				c.restoreLocked(l.confirmed)
			}
		},
	})
}

// DeleteTask removes a task once the user has typed the confirmation word
func (c *Coordinator) DeleteTask(ctx context.Context, id, confirmation string) (*Mutation, error) {
	if err := models.CheckDeleteConfirmation(confirmation); err != nil {
		return nil, err
	}
	cur, ok := c.store.Task(id)
	if !ok {
		return nil, &models.ValidationError{Field: "id", Err: models.ErrTaskNotFound}
	}

	m := newMutation(KindDeleteTask, id)
	m.task = cur
	m.retry = func(ctx context.Context) (*Mutation, error) {
		return c.DeleteTask(ctx, id, confirmation)
	}

	return c.submit(ctx, step{
		m:      m,
		taskID: id,
		apply: func(*lane) {
			c.store.RemoveTask(id)
		},
		remote: func(ctx context.Context) error {
			remoteID, ok := c.resolve(id)
			if !ok {
				// the create never reached the server
				return nil
			}
			err := c.gw.DeleteTask(ctx, remoteID)
			if errors.Is(err, models.ErrTaskNotFound) {
				return nil
			}
			return err
		},
		commit: func(l *lane, _ bool) {
			remoteID, _ := c.resolveLocked(id)
			l.confirmed = taskSnapshot{task: models.Task{ID: remoteID}}
		},
		fail: func(l *lane, last bool, _ error) {
			if last {
				c.restoreLocked(l.confirmed)
			}
		},
	}), nil
}

// laneKeyLocked returns the lane for a task ID in the store. A task created
// under a placeholder stays in the placeholder's lane until it drains.
func (c *Coordinator) laneKeyLocked(id string) string {
	if placeholder, ok := c.reverse[id]; ok {
		if _, busy := c.lanes[taskKeyPrefix+placeholder]; busy {
			return taskKeyPrefix + placeholder
		}
	}
	return taskKeyPrefix + id
}

// storeIDLocked maps a lane's task ID to the ID the store currently uses
func (c *Coordinator) storeIDLocked(id string) string {
	if serverID, ok := c.aliases[id]; ok {
		return serverID
	}
	return id
}

// resolve maps a task ID to its server ID. It fails for a placeholder
// whose create did not succeed.
func (c *Coordinator) resolve(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked(id)
}

func (c *Coordinator) resolveLocked(id string) (string, bool) {
	if !isPlaceholder(id) {
		return id, true
	}
	serverID, ok := c.aliases[id]
	return serverID, ok
}

// snapshotLocked captures a task's current store value, or its absence
func (c *Coordinator) snapshotLocked(id string) taskSnapshot {
	if cur, ok := c.store.IndexedTask(id); ok {
		return taskSnapshot{task: cur.Task, index: cur.Index, present: true}
	}
	return taskSnapshot{task: models.Task{ID: id}}
}

// confirmedLocked builds the rollback target from a server record,
// remembering where the task currently sits
func (c *Coordinator) confirmedLocked(task models.Task) taskSnapshot {
	snap := taskSnapshot{task: task, present: true}
	if cur, ok := c.store.IndexedTask(task.ID); ok {
		snap.index = cur.Index
	}
	return snap
}

// writeTaskLocked reconciles the store with a server record
func (c *Coordinator) writeTaskLocked(task models.Task) {
	if _, ok := c.store.Task(task.ID); ok {
		if err := c.store.UpsertTask(task); err != nil {
			c.logger.Debug("server task no longer fits the board", "id", task.ID, "error", err)
		}
		return
	}
	if placeholder, ok := c.reverse[task.ID]; ok {
		if err := c.store.SwapTask(placeholder, task); err != nil {
			c.logger.Debug("server task no longer fits the board", "id", task.ID, "error", err)
		}
	}
}

// restoreLocked puts a task back to a snapshot taken earlier. A snapshot
// whose column has since been deleted restores to absent.
func (c *Coordinator) restoreLocked(snap taskSnapshot) {
	id := snap.task.ID
	if !snap.present || !c.store.HasColumn(snap.task.Status) {
		c.store.RemoveTask(id)
		if placeholder, ok := c.reverse[id]; ok {
			c.store.RemoveTask(placeholder)
		}
		return
	}

	if _, ok := c.store.Task(id); ok {
		if err := c.store.UpsertTask(snap.task); err != nil {
			c.logger.Debug("rollback target no longer fits the board", "id", id, "error", err)
		}
		return
	}
	if placeholder, ok := c.reverse[id]; ok {
		if _, ok := c.store.Task(placeholder); ok {
			if err := c.store.SwapTask(placeholder, snap.task); err != nil {
				c.logger.Debug("rollback target no longer fits the board", "id", id, "error", err)
			}
			return
		}
	}
	if err := c.store.InsertTaskAt(snap.index, snap.task); err != nil {
		c.logger.Debug("rollback target no longer fits the board", "id", id, "error", err)
	}
}
