package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authinbox "github.com/yoyo-owo/auth-inbox"
	"github.com/yoyo-owo/auth-inbox/internal/ingest"
)

// handleReceive accepts one serialized email over the remote-invocation
// boundary and runs it through the pipeline synchronously. A non-2xx response
// means a persistence write failed and the caller should redeliver; extraction
// failures are normal completions and still return 200.
func (s *Server) handleReceive(c echo.Context) error {
	logger := s.getRequestLogger(c)

	var payload ingest.Payload
	if err := c.Bind(&payload); err != nil {
		return authinbox.Invalid("invalid request body")
	}

	if payload.From == "" {
		return authinbox.Invalid("from address is required")
	}
	if payload.To == "" {
		return authinbox.Invalid("to address is required")
	}
	if payload.RawEmail == "" {
		return authinbox.Invalid("rawEmail is required")
	}

	email := ingest.FromPayload(payload)

	if err := s.pipeline.Process(c.Request().Context(), email); err != nil {
		return HandleError(c, logger, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "processed"})
}
