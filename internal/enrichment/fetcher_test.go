package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_ParsesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TestBot/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><meta property="og:title" content="Silk Scarf"><meta property="og:image" content="/s.jpg"></head></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetcherConfig{Timeout: time.Second, UserAgent: "TestBot/1.0", AllowPrivateNetworks: true})
	p, err := f.Fetch(context.Background(), srv.URL+"/scarf")
	require.NoError(t, err)

	assert.Equal(t, "Silk Scarf", p.Title)
	assert.Equal(t, srv.URL+"/s.jpg", p.ImageURL)
	assert.Equal(t, srv.URL+"/scarf", p.URL)
}

func TestHTTPFetcher_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetcherConfig{Timeout: time.Second, AllowPrivateNetworks: true})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestHTTPFetcher_BodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>` + strings.Repeat(" ", 4096) + `<meta property="og:title" content="Too Far"></head></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetcherConfig{Timeout: time.Second, MaxBodyBytes: 1024, AllowPrivateNetworks: true})
	p, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, p.Title)
}

func TestHTTPFetcher_RejectsRedirectToPrivateHost(t *testing.T) {
	var internalHits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		internalHits.Add(1)
		_, _ = w.Write([]byte(`<html><head><title>admin</title></head></html>`))
	}))
	defer internal.Close()

	shop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, internal.URL+"/admin", http.StatusFound)
	}))
	defer shop.Close()

	f := NewHTTPFetcher(FetcherConfig{Timeout: time.Second, AllowPrivateNetworks: true})
	_, err := f.Fetch(context.Background(), shop.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrivateAddress)
	assert.Zero(t, internalHits.Load())
}

func TestHTTPFetcher_RejectsPrivateDial(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	// The host name resolves to loopback only after DNS.
	u := strings.Replace(srv.URL, "127.0.0.1", "localhost", 1)

	f := NewHTTPFetcher(FetcherConfig{Timeout: time.Second})
	_, err := f.Fetch(context.Background(), u)
	require.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestPublicOnly(t *testing.T) {
	for _, addr := range []string{"127.0.0.1:80", "10.1.2.3:443", "169.254.169.254:80", "[::1]:80", "[::ffff:192.168.0.1]:80", "0.0.0.0:80"} {
		assert.ErrorIs(t, publicOnly("tcp", addr, nil), ErrPrivateAddress, addr)
	}
	assert.NoError(t, publicOnly("tcp", "93.184.216.34:443", nil))
	assert.NoError(t, publicOnly("tcp6", "[2606:2800:220:1::1]:443", nil))
}

func TestHostLimiter(t *testing.T) {
	l := NewHostLimiter(1, 1)

	require.NoError(t, l.Wait(context.Background(), "a.example"))
	require.NoError(t, l.Wait(context.Background(), "b.example"), "hosts are limited independently")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "A.example"), "second request to the same host within a second waits")

	unlimited := NewHostLimiter(0, 1)
	for i := 0; i < 100; i++ {
		require.NoError(t, unlimited.Wait(context.Background(), "a.example"))
	}
}
