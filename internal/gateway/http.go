package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/thenoetrevino/kanban/internal/events"
	"github.com/thenoetrevino/kanban/internal/models"
)

// DefaultTimeout bounds each remote call when no timeout is configured
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// HTTPGateway speaks the board REST API
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

var (
	_ Gateway             = (*HTTPGateway)(nil)
	_ events.EventSource = (*HTTPGateway)(nil)
)

// Option configures an HTTPGateway
type Option func(*HTTPGateway)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) {
		g.client = c
	}
}

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) {
		g.timeout = d
	}
}

// NewHTTP creates a gateway for the server at baseURL (e.g. http://localhost:8080)
func NewHTTP(baseURL string, opts ...Option) (*HTTPGateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}

	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *HTTPGateway) List(ctx context.Context) (models.Board, error) {
	var board models.Board
	if err := g.do(ctx, "list board", http.MethodGet, "/api/tasks", nil, &board); err != nil {
		return models.Board{}, err
	}
	return board, nil
}

func (g *HTTPGateway) CreateTask(ctx context.Context, title, status string) (models.Task, error) {
	title, err := prepareTask(title, status)
	if err != nil {
		return models.Task{}, err
	}

	var task models.Task
	body := CreateTaskRequest{Title: title, Status: status}
	if err := g.do(ctx, "create task", http.MethodPost, "/api/tasks", body, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (g *HTTPGateway) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	patch, err := preparePatch(id, patch)
	if err != nil {
		return models.Task{}, err
	}

	var task models.Task
	if err := g.do(ctx, "update task", http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (g *HTTPGateway) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return &models.ValidationError{Field: "id", Err: models.ErrTaskNotFound}
	}
	return g.do(ctx, "delete task", http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (g *HTTPGateway) CreateColumn(ctx context.Context, displayTitle, color string) (models.Column, error) {
	body, err := prepareColumn(displayTitle, color)
	if err != nil {
		return models.Column{}, err
	}

	var col models.Column
	if err := g.do(ctx, "create column", http.MethodPost, "/api/columns", body, &col); err != nil {
		return models.Column{}, err
	}
	return col, nil
}

func (g *HTTPGateway) DeleteColumn(ctx context.Context, id string) error {
	if id == "" {
		return &models.ValidationError{Field: "id", Err: models.ErrColumnNotFound}
	}
	return g.do(ctx, "delete column", http.MethodDelete, "/api/columns/"+url.PathEscape(id), nil, nil)
}

// Subscribe opens the server's event stream. The channel closes when the
// stream ends or ctx is cancelled. Only the connection attempt is bounded
// by the call timeout.
func (g *HTTPGateway) Subscribe(ctx context.Context) (<-chan events.Event, func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/events", nil)
	if err != nil {
		cancel()
		return nil, nil, &models.TransportError{Op: "watch", Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")

	var timer *time.Timer
	if g.timeout > 0 {
		timer = time.AfterFunc(g.timeout, cancel)
	}
	resp, err := g.client.Do(req)
	if timer != nil && !timer.Stop() {
		cancel()
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, nil, &models.TransportError{Op: "watch", Err: context.DeadlineExceeded}
	}
	if err != nil {
		cancel()
		return nil, nil, &models.TransportError{Op: "watch", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		cancel()
		return nil, nil, responseError("watch", resp)
	}

	ch := make(chan events.Event)
	go func() {
		defer close(ch)
		defer func() { _ = resp.Body.Close() }()

		err := events.ReadSSE(resp.Body, func(event events.Event) error {
			select {
			case ch <- event:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			slog.Warn("event stream ended", "error", err)
		}
	}()

	return ch, cancel, nil
}

// do performs one request under the call timeout. A nil out discards the body.
func (g *HTTPGateway) do(ctx context.Context, op, method, path string, in, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("gateway request", "op", op, "method", method, "path", path)
	resp, err := g.client.Do(req)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(op, resp)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &models.TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return &models.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// responseError turns an error response into the error taxonomy.
// 409 becomes a ConflictError; everything else a TransportError.
// Known codes wrap their sentinel so errors.Is keeps working across the wire.
func responseError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	var envelope ErrorBody
	if err := sonic.Unmarshal(data, &envelope); err != nil || envelope.Error.Message == "" {
		envelope.Error.Message = strings.TrimSpace(string(data))
		if envelope.Error.Message == "" {
			envelope.Error.Message = http.StatusText(resp.StatusCode)
		}
	}

	var cause error = &remoteError{
		message:  envelope.Error.Message,
		sentinel: models.SentinelForCode(envelope.Error.Code),
	}
	if envelope.Error.Code == models.CodeValidation {
		cause = &models.ValidationError{Err: cause}
	}

	if resp.StatusCode == http.StatusConflict {
		return &models.ConflictError{Op: op, Err: cause}
	}
	return &models.TransportError{Op: op, StatusCode: resp.StatusCode, Err: cause}
}

// remoteError keeps the server's message while unwrapping to the matching sentinel
type remoteError struct {
	message  string
	sentinel error
}

func (e *remoteError) Error() string { return e.message }

func (e *remoteError) Unwrap() error { return e.sentinel }
