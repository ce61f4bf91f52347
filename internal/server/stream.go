package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/kanban/internal/events"
)

const keepAliveInterval = 15 * time.Second

// streamEvents relays board change events to the client as server-sent events
func streamEvents(broker *events.Broker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if broker == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "event stream disabled")
		}

		ctx := c.Request().Context()
		ch, unsubscribe, err := broker.Subscribe(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		defer unsubscribe()

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		c.Response().WriteHeader(http.StatusOK)

		w := c.Response()
		if err := events.WriteSSEComment(w, "connected"); err != nil {
			return nil
		}
		w.Flush()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-ch:
				if !ok {
					return nil
				}
				if err := events.WriteSSE(w, event); err != nil {
					c.Logger().Debug(err)
					return nil
				}
				w.Flush()
			case <-ticker.C:
				if err := events.WriteSSEComment(w, "ping"); err != nil {
					return nil
				}
				w.Flush()
			}
		}
	}
}
