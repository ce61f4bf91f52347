package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/kanban/internal/gateway"
	"github.com/thenoetrevino/kanban/internal/models"
)

// statusForCode maps error codes to HTTP statuses
var statusForCode = map[string]int{
	models.CodeValidation:           http.StatusBadRequest,
	models.CodeTaskNotFound:         http.StatusNotFound,
	models.CodeColumnNotFound:       http.StatusNotFound,
	models.CodeUnknownColumn:        http.StatusConflict,
	models.CodeFixedColumn:          http.StatusConflict,
	models.CodeTransitionNotAllowed: http.StatusConflict,
}

// errorHandler renders every error as the JSON error envelope
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, detail := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, gateway.ErrorBody{Error: detail})
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}

func classify(err error) (int, gateway.ErrorDetail) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := models.CodeInternal
		switch {
		case he.Code == http.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case he.Code == http.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case he.Code < http.StatusInternalServerError:
			code = models.CodeValidation
		}
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		return he.Code, gateway.ErrorDetail{Code: code, Message: message}
	}

	code := models.ErrorCode(err)
	status, ok := statusForCode[code]
	if !ok {
		return http.StatusInternalServerError, gateway.ErrorDetail{Code: models.CodeInternal, Message: "internal server error"}
	}
	return status, gateway.ErrorDetail{Code: code, Message: err.Error()}
}
