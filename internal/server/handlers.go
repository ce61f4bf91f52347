package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/kanban/internal/database"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/gateway"
	"github.com/thenoetrevino/kanban/internal/models"
)

// Register wires up all API routes on the provided Echo instance.
// A nil broker disables change events.
func Register(e *echo.Echo, store database.DataStore, broker *events.Broker) {
	var publisher events.EventPublisher
	if broker != nil {
		publisher = broker
	}

	e.GET("/api/tasks", listBoard(store))
	e.POST("/api/tasks", createTask(store, publisher))
	e.PUT("/api/tasks/:id", updateTask(store, publisher))
	e.DELETE("/api/tasks/:id", deleteTask(store, publisher))
	e.POST("/api/columns", createColumn(store, publisher))
	e.DELETE("/api/columns/:id", deleteColumn(store, publisher))
	e.GET("/api/events", streamEvents(broker))
	e.GET("/healthz", healthz(store, broker))
}

func listBoard(store database.DataStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		board, err := store.ListBoard(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, board)
	}
}

func createTask(store database.DataStore, publisher events.EventPublisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req gateway.CreateTaskRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		task, err := store.CreateTask(c.Request().Context(), req.Title, req.Status)
		if err != nil {
			return err
		}
		events.Publish(publisher, events.EventTaskCreated, task.ID)
		return c.JSON(http.StatusCreated, task)
	}
}

func updateTask(store database.DataStore, publisher events.EventPublisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch models.TaskPatch
		if err := c.Bind(&patch); err != nil {
			return err
		}
		task, err := store.UpdateTask(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		events.Publish(publisher, events.EventTaskUpdated, task.ID)
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(store database.DataStore, publisher events.EventPublisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if err := store.DeleteTask(c.Request().Context(), id); err != nil {
			return err
		}
		events.Publish(publisher, events.EventTaskDeleted, id)
		return c.NoContent(http.StatusNoContent)
	}
}

func createColumn(store database.DataStore, publisher events.EventPublisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req gateway.CreateColumnRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		col, err := store.CreateColumn(c.Request().Context(), req.DisplayTitle, req.Color)
		if err != nil {
			return err
		}
		events.Publish(publisher, events.EventColumnCreated, col.ID)
		return c.JSON(http.StatusCreated, col)
	}
}

func deleteColumn(store database.DataStore, publisher events.EventPublisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if _, err := store.DeleteColumn(c.Request().Context(), id); err != nil {
			return err
		}
		events.Publish(publisher, events.EventColumnDeleted, id)
		return c.NoContent(http.StatusNoContent)
	}
}

type healthResponse struct {
	Status string           `json:"status"`
	Events *events.Snapshot `json:"events,omitempty"`
}

func healthz(store database.DataStore, broker *events.Broker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		}
		resp := healthResponse{Status: "ok"}
		if broker != nil {
			snap := broker.Metrics().Snapshot()
			resp.Events = &snap
		}
		return c.JSON(http.StatusOK, resp)
	}
}
