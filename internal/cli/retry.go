package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/thenoetrevino/kanban/internal/coordinator"
	"github.com/thenoetrevino/kanban/internal/models"
)

// Await waits for m to settle. While it keeps failing because the server
// could not be reached, it is resubmitted up to retries more times. The
// returned mutation is the last one submitted.
func Await(ctx context.Context, m *coordinator.Mutation, retries int) (*coordinator.Mutation, error) {
	for {
		err := m.Wait(ctx)
		if err == nil || retries <= 0 || !retryable(err) || ctx.Err() != nil {
			return m, err
		}
		retries--
		slog.Info("retrying", "kind", m.Kind(), "entity", m.EntityID(), "error", err, "left", retries)

		next, rerr := m.Retry(ctx)
		if rerr != nil {
			return m, errors.Join(err, rerr)
		}
		m = next
	}
}

// retryable is true for transport failures that never got an answer from
// the server or got a 5xx
func retryable(err error) bool {
	var te *models.TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode == 0 || te.StatusCode >= http.StatusInternalServerError
}
