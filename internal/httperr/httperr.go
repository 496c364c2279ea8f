package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Success bool   `json:"success"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Success: false,
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// --------------------------------------------------
// Error mapping
// --------------------------------------------------

var conflictCodes = map[string]string{
	"slot_conflict":             "The requested time is no longer available.",
	"invalid_status_transition": "The appointment cannot move to the requested status.",
	"resource_unavailable":      "A required resource is not available at the requested time.",
	"request_in_progress":       "A request with the same idempotency key is in progress.",
}

// Respond renders err as a structured failure. Unknown errors are logged and
// reported without internals.
func Respond(c *gin.Context, log zerolog.Logger, err error) {
	var ve ValidationError
	if errors.As(err, &ve) {
		Write(c, http.StatusBadRequest, "validation_error", ve.Error())
		return
	}

	if code, ok := BusinessCode(err); ok {
		switch {
		case conflictCodes[code] != "":
			Conflict(c, code, conflictCodes[code])
		case strings.HasSuffix(code, "_not_found"):
			NotFound(c, code, "Not found.")
		default:
			Write(c, http.StatusUnprocessableEntity, code, "The request cannot be processed.")
		}
		return
	}

	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("unexpected error")

	Internal(c, "internal_error", "Unexpected error.")
}
