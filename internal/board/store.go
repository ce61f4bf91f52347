// Package board holds the in-memory board state that the client renders from.
//
// Writes never modify a slice that has already been handed out: every write
// builds a new slice and swaps it in, so views returned by TasksInColumn and
// the Tasks/Columns accessors stay stable while the store keeps changing.
package board

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/thenoetrevino/kanban/internal/models"
)

// Store is the board state container. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	// tasks are ordered most recently added first
	tasks []models.Task

	// columns are kept in server order
	columns []models.Column
}

// IndexedTask remembers where a task sat in the task list
type IndexedTask struct {
	Index int
	Task  models.Task
}

// ColumnRemoval records everything RemoveColumn took out of the store so it
// can be put back with RestoreColumn
type ColumnRemoval struct {
	Column      models.Column
	ColumnIndex int
	Tasks       []IndexedTask
}

// Snapshot is an immutable view of the whole board taken under one lock,
// so its tasks and columns always agree with each other
type Snapshot struct {
	tasks   []models.Task
	columns []models.Column
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// ReplaceAll swaps in a freshly loaded board. Tasks whose status references
// no column are dropped; the number dropped is returned.
func (s *Store) ReplaceAll(tasks []models.Task, columns []models.Column) int {
	cols := slices.Clone(columns)
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.ID] = true
	}

	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if known[t.Status] {
			kept = append(kept, t)
		}
	}

	s.mu.Lock()
	s.tasks = kept
	s.columns = cols
	s.mu.Unlock()

	return len(tasks) - len(kept)
}

// UpsertTask replaces the task with the same ID in place, or adds it at the
// front of the list when it is new
func (s *Store) UpsertTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasColumnLocked(task.Status) {
		return fmt.Errorf("upsert task %s: %w", task.ID, models.ErrUnknownColumn)
	}

	if i := s.taskIndexLocked(task.ID); i >= 0 {
		next := slices.Clone(s.tasks)
		next[i] = task
		s.tasks = next
		return nil
	}

	s.tasks = slices.Insert(slices.Clone(s.tasks), 0, task)
	return nil
}

// SwapTask replaces the task stored under oldID with task, keeping its
// position. Used to exchange a local placeholder for the server's record.
func (s *Store) SwapTask(oldID string, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasColumnLocked(task.Status) {
		return fmt.Errorf("swap task %s: %w", oldID, models.ErrUnknownColumn)
	}

	next := slices.Clone(s.tasks)
	if dup := s.taskIndexLocked(task.ID); dup >= 0 && task.ID != oldID {
		next = slices.Delete(next, dup, dup+1)
	}

	i := slices.IndexFunc(next, func(t models.Task) bool { return t.ID == oldID })
	if i < 0 {
		s.tasks = slices.Insert(next, 0, task)
		return nil
	}
	next[i] = task
	s.tasks = next
	return nil
}

// InsertTaskAt puts task back at index (clamped to the list bounds).
// A task that is already present is replaced where it stands.
func (s *Store) InsertTaskAt(index int, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasColumnLocked(task.Status) {
		return fmt.Errorf("insert task %s: %w", task.ID, models.ErrUnknownColumn)
	}

	next := slices.Clone(s.tasks)
	if i := s.taskIndexLocked(task.ID); i >= 0 {
		next[i] = task
		s.tasks = next
		return nil
	}

	s.tasks = slices.Insert(next, clamp(index, len(next)), task)
	return nil
}

// RemoveTask deletes a task and reports what was removed and where it was
func (s *Store) RemoveTask(id string) (models.Task, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndexLocked(id)
	if i < 0 {
		return models.Task{}, -1, false
	}

	removed := s.tasks[i]
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	return removed, i, true
}

// UpsertColumn replaces the column with the same ID in place, or appends it
func (s *Store) UpsertColumn(column models.Column) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.columns)
	if i := s.columnIndexLocked(column.ID); i >= 0 {
		next[i] = column
	} else {
		next = append(next, column)
	}
	s.columns = next
}

// RemoveColumn deletes a non-fixed column together with every task whose
// status references it. Fixed or unknown columns are left alone and false
// is returned.
func (s *Store) RemoveColumn(id string) (ColumnRemoval, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci := s.columnIndexLocked(id)
	if ci < 0 || s.columns[ci].IsFixed || models.IsFixedColumnID(id) {
		return ColumnRemoval{}, false
	}

	removal := ColumnRemoval{Column: s.columns[ci], ColumnIndex: ci}
	kept := make([]models.Task, 0, len(s.tasks))
	for i, t := range s.tasks {
		if t.Status == id {
			removal.Tasks = append(removal.Tasks, IndexedTask{Index: i, Task: t})
			continue
		}
		kept = append(kept, t)
	}

	s.tasks = kept
	s.columns = slices.Delete(slices.Clone(s.columns), ci, ci+1)
	return removal, true
}

// RestoreColumn undoes a RemoveColumn. Tasks that reappeared in the meantime
// are not duplicated. A zero ColumnRemoval is ignored.
func (s *Store) RestoreColumn(r ColumnRemoval) {
	if r.Column.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.columnIndexLocked(r.Column.ID) < 0 {
		s.columns = slices.Insert(slices.Clone(s.columns), clamp(r.ColumnIndex, len(s.columns)), r.Column)
	}

	next := slices.Clone(s.tasks)
	for _, it := range r.Tasks {
		if slices.ContainsFunc(next, func(t models.Task) bool { return t.ID == it.Task.ID }) {
			continue
		}
		next = slices.Insert(next, clamp(it.Index, len(next)), it.Task)
	}
	s.tasks = next
}

// TasksInColumn returns a lazy view of the tasks in a column, in board order.
// The view is bound to the board as it was when the call was made and can
// be ranged over any number of times.
func (s *Store) TasksInColumn(columnID string) iter.Seq[models.Task] {
	s.mu.RLock()
	tasks := s.tasks
	s.mu.RUnlock()

	return func(yield func(models.Task) bool) {
		for _, t := range tasks {
			if t.Status != columnID {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Tasks returns a copy of all tasks
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Columns returns a copy of all columns
func (s *Store) Columns() []models.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.columns)
}

// Task looks up a task by ID
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return models.Task{}, false
}

// IndexedTask looks up a task by ID along with its position in the task list
func (s *Store) IndexedTask(id string) (IndexedTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndexLocked(id); i >= 0 {
		return IndexedTask{Index: i, Task: s.tasks[i]}, true
	}
	return IndexedTask{}, false
}

// Column looks up a column by ID
func (s *Store) Column(id string) (models.Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.columnIndexLocked(id); i >= 0 {
		return s.columns[i], true
	}
	return models.Column{}, false
}

// HasColumn reports whether a column with the given ID exists
func (s *Store) HasColumn(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasColumnLocked(id)
}

// Snapshot captures the current board
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{tasks: s.tasks, columns: s.columns}
}

// Board returns a copy of the snapshot the caller may modify
func (s Snapshot) Board() models.Board {
	return models.Board{
		Tasks:   slices.Clone(s.tasks),
		Columns: slices.Clone(s.columns),
	}
}

func (s *Store) taskIndexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func (s *Store) columnIndexLocked(id string) int {
	return slices.IndexFunc(s.columns, func(c models.Column) bool { return c.ID == id })
}

func (s *Store) hasColumnLocked(id string) bool {
	return s.columnIndexLocked(id) >= 0
}

func clamp(index, length int) int {
	return max(0, min(index, length))
}
