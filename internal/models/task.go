package models

import (
	"strings"
	"time"
)

// Task represents a single card on the kanban board
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"` // ID of the column holding the task
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskPatch carries a partial task update.
// Fields with pointers are optional - nil means don't update
type TaskPatch struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Status == nil
}

// Apply returns a copy of task with the patch applied
func (p TaskPatch) Apply(task Task) Task {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	return task
}

// TitlePatch builds a patch that only changes the title
func TitlePatch(title string) TaskPatch {
	return TaskPatch{Title: &title}
}

// StatusPatch builds a patch that only changes the status
func StatusPatch(status string) TaskPatch {
	return TaskPatch{Status: &status}
}

// NormalizeTitle trims surrounding whitespace and rejects empty titles
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if len(trimmed) > MaxTitleLength {
		return "", &ValidationError{Field: "title", Err: ErrTitleTooLong}
	}
	return trimmed, nil
}
