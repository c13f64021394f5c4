package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gift_registry_echo/internal/apperrors"
)

// NewErrorHandler creates the custom JSON error handler for Echo. Every
// error is logged with full detail server-side; callers only see the
// public message for their error class.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := apperrors.HTTPStatus(err)
		message, details := apperrors.PublicMessage(err)

		// Echo's own errors (unknown routes, bind failures) pass through
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			} else {
				message = http.StatusText(code)
			}
			details = nil
		}

		log.Error("request failed",
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", code),
			zap.Error(err),
		)

		body := map[string]interface{}{
			"success": false,
			"error":   message,
		}
		if len(details) > 0 {
			body["details"] = details
		}

		if writeErr := c.JSON(code, body); writeErr != nil {
			log.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}
