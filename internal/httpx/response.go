// Package httpx holds the small helpers every handler uses to read request
// bodies and write error responses.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

const genericFailure = "internal server error"

// Error writes err as a JSON error response and aborts the chain. Unknown
// errors and upstream failures are logged and reported with a generic message.
func Error(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Upstream(genericFailure, err)
	}

	status := appErr.HTTPStatus()
	body := ErrorBody{Error: appErr.Message, Code: string(appErr.Code), Details: appErr.Details}

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", err,
		)
		body = ErrorBody{Error: genericFailure, Code: string(appErr.Code)}
	}

	c.AbortWithStatusJSON(status, body)
}

// BindJSON decodes the request body into dst, reporting malformed JSON as a
// validation failure.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid request body", map[string]string{"body": err.Error()})
	}
	return nil
}

// Success writes {"success": true}.
func Success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
