package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/careloop/clinic-api/pkg/errors"
	"github.com/careloop/clinic-api/pkg/httputil"
)

var codeNames = map[apperrors.ErrorCode]string{
	apperrors.ErrValidation:        "validation",
	apperrors.ErrConflict:          "conflict",
	apperrors.ErrUnavailable:       "unavailable",
	apperrors.ErrInvalidDate:       "invalid_date",
	apperrors.ErrSlotTaken:         "slot_taken",
	apperrors.ErrIllegalTransition: "illegal_transition",
	apperrors.ErrAuthorization:     "authorization",
	apperrors.ErrNotFound:          "not_found",
	apperrors.ErrInternal:          "internal",
}

// ErrorHandler maps application errors attached by handlers to HTTP
// responses. Internal errors are logged with their cause but surfaced
// opaquely.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			appErr = apperrors.Internal(err)
		}

		if appErr.Code == apperrors.ErrInternal {
			log.Error().
				Err(appErr.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}

		name := codeNames[appErr.Code]
		if name == "" {
			name = "internal"
		}
		httputil.Error(c, appErr.StatusCode(), name, appErr.Message, appErr.Field)
	}
}

// BindError wraps a gin binding failure as a validation error.
func BindError(err error) *apperrors.AppError {
	msg := err.Error()
	if i := strings.Index(msg, "Error:"); i > 0 {
		msg = msg[i+len("Error:"):]
	}
	return apperrors.Validation("", strings.TrimSpace(msg))
}

// NotFoundHandler is the fallback route.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		httputil.Error(c, http.StatusNotFound, "not_found", "route not found", "")
	}
}
