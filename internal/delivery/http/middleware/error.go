package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/delivery/http/response"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware maps handler errors to {"message": ...} responses
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logError(c, err, appErr.ErrorCode())
		}
		m.write(c, response.Error(c, appErr.HTTPCode(), appErr.Message()))

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			m.logError(c, err, "HTTP_ERROR")
			m.write(c, response.InternalServerError(c))

			return
		}

		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		}
		m.write(c, response.Error(c, httpErr.Code, message))

		return
	}

	// Anything else is unexpected; the detail stays in the logs.
	m.logError(c, err, domainerrors.ErrInternal.ErrorCode())
	m.write(c, response.InternalServerError(c))
}

func (m *ErrorMiddleware) logError(c echo.Context, err error, code string) {
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Request failed",
		slog.String("code", code),
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}

func (m *ErrorMiddleware) write(c echo.Context, err error) {
	if err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
