// Package gateway talks to the remote task and column store.
// It validates inputs before dispatch and never touches local board state.
package gateway

import (
	"context"

	"github.com/thenoetrevino/kanban/internal/models"
)

// Gateway is the remote collection of tasks and columns.
// Every method returns the canonical server record.
type Gateway interface {
	List(ctx context.Context) (models.Board, error)
	CreateTask(ctx context.Context, title, status string) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CreateColumn(ctx context.Context, displayTitle, color string) (models.Column, error)
	DeleteColumn(ctx context.Context, id string) error
}

// Request bodies shared with the server

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// CreateColumnRequest is the body of POST /api/columns
type CreateColumnRequest struct {
	DisplayTitle string `json:"displayTitle"`
	Color        string `json:"color"`
}

// ErrorBody is the error envelope returned by the server
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine readable code and a message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// prepareTask validates create input and returns the normalized title
func prepareTask(title, status string) (string, error) {
	title, err := models.NormalizeTitle(title)
	if err != nil {
		return "", err
	}
	if status == "" {
		return "", &models.ValidationError{Field: "status", Err: models.ErrUnknownColumn}
	}
	return title, nil
}

// preparePatch validates an update and normalizes its title
func preparePatch(id string, patch models.TaskPatch) (models.TaskPatch, error) {
	if id == "" {
		return patch, &models.ValidationError{Field: "id", Err: models.ErrTaskNotFound}
	}
	if patch.IsEmpty() {
		return patch, &models.ValidationError{Field: "patch", Err: models.ErrEmptyPatch}
	}
	if patch.Title != nil {
		title, err := models.NormalizeTitle(*patch.Title)
		if err != nil {
			return patch, err
		}
		patch.Title = &title
	}
	if patch.Status != nil && *patch.Status == "" {
		return patch, &models.ValidationError{Field: "status", Err: models.ErrUnknownColumn}
	}
	return patch, nil
}

// prepareColumn validates create input, filling in the default color
func prepareColumn(displayTitle, color string) (CreateColumnRequest, error) {
	title, err := models.NormalizeDisplayTitle(displayTitle)
	if err != nil {
		return CreateColumnRequest{}, err
	}
	if color == "" {
		color = models.DefaultColumnColor
	}
	if err := models.ValidateColor(color); err != nil {
		return CreateColumnRequest{}, err
	}
	return CreateColumnRequest{DisplayTitle: title, Color: color}, nil
}
