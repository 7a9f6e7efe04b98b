package proxy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
)

const defaultMaxEnvelopeBytes = 20 << 20

var (
	numericRe      = regexp.MustCompile(`^[0-9]+$`)
	alphanumericRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// EndpointFunc builds the ingest URL for an envelope.
type EndpointFunc func(org, project, region string) string

// SentryEndpoint is the public Sentry ingest URL.
func SentryEndpoint(org, project, region string) string {
	return fmt.Sprintf("https://o%s.ingest.%s.sentry.io/api/%s/envelope/?hsts=0", org, region, project)
}

// SentryTunnel relays browser error envelopes to Sentry so ad blockers do
// not drop them. Upstream status and body are passed back unchanged.
type SentryTunnel struct {
	client      *http.Client
	endpoint    EndpointFunc
	allowed     []string
	maxEnvelope int64
}

type TunnelOption func(*SentryTunnel)

func WithEndpoint(fn EndpointFunc) TunnelOption {
	return func(t *SentryTunnel) { t.endpoint = fn }
}

func WithHTTPClient(c *http.Client) TunnelOption {
	return func(t *SentryTunnel) { t.client = c }
}

// WithMaxEnvelopeBytes caps the accepted envelope size. Larger envelopes are
// rejected, never truncated.
func WithMaxEnvelopeBytes(n int64) TunnelOption {
	return func(t *SentryTunnel) { t.maxEnvelope = n }
}

// NewSentryTunnel creates a tunnel. An empty allowed list accepts any
// numeric project id.
func NewSentryTunnel(timeout time.Duration, allowed []string, opts ...TunnelOption) *SentryTunnel {
	t := &SentryTunnel{
		client:      &http.Client{Timeout: timeout},
		endpoint:    SentryEndpoint,
		allowed:     allowed,
		maxEnvelope: defaultMaxEnvelopeBytes,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *SentryTunnel) Register(r gin.IRouter) {
	r.POST("/monitoring", t.Handle)
}

func (t *SentryTunnel) Handle(c *gin.Context) {
	org, project, region := c.Query("o"), c.Query("p"), c.Query("r")

	details := map[string]string{}
	if !numericRe.MatchString(org) {
		details["o"] = "must be numeric"
	}
	if !numericRe.MatchString(project) {
		details["p"] = "must be numeric"
	} else if len(t.allowed) > 0 && !slices.Contains(t.allowed, project) {
		details["p"] = "project not allowed"
	}
	if !alphanumericRe.MatchString(region) {
		details["r"] = "must be alphanumeric"
	}
	if len(details) > 0 {
		httpx.Error(c, apperr.Validation("invalid tunnel target", details))
		return
	}

	envelope, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, t.maxEnvelope))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Error(c, apperr.Validation("envelope too large",
				map[string]string{"body": fmt.Sprintf("must be at most %d bytes", tooLarge.Limit)}))
			return
		}
		httpx.Error(c, apperr.Validation("invalid request body", map[string]string{"body": err.Error()}))
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		t.endpoint(org, project, region), bytes.NewReader(envelope))
	if err != nil {
		httpx.Error(c, apperr.Upstream("build tunnel request", err))
		return
	}
	req.Header.Set("Content-Type", "application/x-sentry-envelope")

	resp, err := t.client.Do(req)
	if err != nil {
		httpx.Error(c, apperr.Upstream("sentry tunnel", err))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("sentry response read failed", "error", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	c.Data(resp.StatusCode, contentType, body)
}
