package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoutfit/reoutfit-backend/internal/logging"
)

func newEngine(buf *bytes.Buffer) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestID(slog.New(slog.NewJSONHandler(buf, nil))))
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		logging.FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusNoContent)
	})
	return r, &seen
}

func TestRequestID_EchoesCallerID(t *testing.T) {
	var buf bytes.Buffer
	r, seen := newEngine(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", *seen)
	assert.Contains(t, buf.String(), `"msg":"inside handler","request_id":"abc-123"`)
	assert.Contains(t, buf.String(), `"status":204`)
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	r, seen := newEngine(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	rid := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(rid)
	require.NoError(t, err)
	assert.Equal(t, rid, *seen)
}
