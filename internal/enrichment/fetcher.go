package enrichment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"github.com/reoutfit/reoutfit-backend/internal/logging"
)

// Fetcher loads and parses one product page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Product, error)
}

type FetcherConfig struct {
	Timeout      time.Duration
	RatePerSec   float64
	MaxBodyBytes int64
	UserAgent    string
	// AllowPrivateNetworks disables the dial-time address check. Redirects
	// are still validated.
	AllowPrivateNetworks bool
}

const maxRedirects = 5

// ErrPrivateAddress is returned when a fetch would reach a loopback, private
// or link-local address, directly, through DNS or through a redirect.
var ErrPrivateAddress = errors.New("address is not public")

// HTTPFetcher fetches pages over HTTP with a per-host rate limit and a body
// size cap.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *HostLimiter
	maxBody   int64
	userAgent string
}

func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 2 << 20
	}

	dialer := &net.Dialer{Timeout: cfg.Timeout, KeepAlive: 30 * time.Second}
	if !cfg.AllowPrivateNetworks {
		dialer.Control = publicOnly
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// An environment proxy would move the dial away from the guarded dialer.
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:       cfg.Timeout,
			Transport:     transport,
			CheckRedirect: checkRedirect,
		},
		limiter:   NewHostLimiter(cfg.RatePerSec, 1),
		maxBody:   cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Product, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if err := f.limiter.Wait(ctx, u.Hostname()); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", u.Hostname(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Warn("product fetch failed", "host", u.Hostname(), "error", err)
		return nil, fmt.Errorf("fetch %s: %w", u.Hostname(), err)
	}
	defer resp.Body.Close()

	logger.Debug("product fetched", "host", u.Hostname(), "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: upstream status %d", u.Hostname(), resp.StatusCode)
	}

	// resp.Request.URL reflects redirects, so relative links resolve against the final page
	return ParseProduct(io.LimitReader(resp.Body, f.maxBody), resp.Request.URL)
}

// publicOnly runs after DNS resolution, on the address actually dialed.
func publicOnly(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	if !isPublicAddr(ap.Addr()) {
		return fmt.Errorf("dial %s: %w", address, ErrPrivateAddress)
	}
	return nil
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if _, err := ValidateURL(req.URL.String()); err != nil {
		return fmt.Errorf("redirect to %s: %w", req.URL.Host, ErrPrivateAddress)
	}
	return nil
}
