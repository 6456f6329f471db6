package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case authinbox.ENOTFOUND:
		return http.StatusNotFound
	case authinbox.EINVALID:
		return http.StatusBadRequest
	case authinbox.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case authinbox.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse represents the JSON error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HandleError converts domain errors to appropriate HTTP responses.
// It logs internal errors and returns user-safe messages.
func HandleError(c echo.Context, logger *slog.Logger, err error) error {
	code := authinbox.ErrorCode(err)
	message := authinbox.ErrorMessage(err)
	status := errorStatusCode(code)

	// Log internal errors with full details
	if code == authinbox.EINTERNAL {
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("method", c.Request().Method),
		)
		// Don't expose internal error details to clients
		message = "An internal error occurred."
	}

	return c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
