// Package proxy forwards traffic this service does not interpret: chat
// requests to the LangGraph server and Sentry envelopes to the ingest API.
package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/api/http/middleware"
	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
)

// LangGraphPrefix is stripped from incoming paths before forwarding.
const LangGraphPrefix = "/api/langgraph"

// LangGraph reverse-proxies every request under LangGraphPrefix to the
// LangGraph API. Method, path, query, body and Authorization pass through
// unchanged; responses are flushed as they arrive so streams stay live.
type LangGraph struct {
	proxy *httputil.ReverseProxy
}

func NewLangGraph(apiURL, apiKey string) (*LangGraph, error) {
	target, err := url.Parse(apiURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid LangGraph API URL %q", apiURL)
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, LangGraphPrefix)
			pr.Out.URL.RawPath = ""
			pr.SetURL(target)
			if rid := middleware.GetRequestID(pr.In.Context()); rid != "" {
				pr.Out.Header.Set(middleware.RequestIDHeader, rid)
			}
			if apiKey != "" {
				pr.Out.Header.Set("x-api-key", apiKey)
			}
		},
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.FromContext(r.Context()).Error("langgraph proxy failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apperr.CodeUpstream.HTTPStatus())
			_ = json.NewEncoder(w).Encode(httpx.ErrorBody{Error: "upstream unavailable", Code: string(apperr.CodeUpstream)})
		},
	}
	return &LangGraph{proxy: rp}, nil
}

func (l *LangGraph) Handle(c *gin.Context) {
	l.proxy.ServeHTTP(c.Writer, c.Request)
}

// Register mounts the passthrough for every method.
func (l *LangGraph) Register(r gin.IRouter) {
	r.Any(LangGraphPrefix+"/*path", l.Handle)
}
