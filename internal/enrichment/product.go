// Package enrichment fetches retail product pages and extracts structured
// product data from their OpenGraph tags and JSON-LD blocks.
//
// Results are cached in Redis and concurrent requests for the same URL share
// one in-flight fetch.
package enrichment

import (
	"net/netip"
	"net/url"
	"strings"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

// Product is the data extracted from a product page.
type Product struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Category    string   `json:"category,omitempty"`
	Color       string   `json:"color,omitempty"`
	SiteName    string   `json:"site_name,omitempty"`
}

func (p *Product) clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Price != nil {
		price := *p.Price
		cp.Price = &price
	}
	return &cp
}

var errBadURL = apperr.Validation("validation failed", map[string]string{"url": "must be a public http or https URL"})

// ValidateURL accepts absolute http(s) URLs whose host is not loopback,
// private or link-local. The fragment is dropped.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, errBadURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errBadURL
	}

	host := strings.ToLower(u.Hostname())
	if host == "" || host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return nil, errBadURL
	}
	if addr, err := netip.ParseAddr(host); err == nil && !isPublicAddr(addr) {
		return nil, errBadURL
	}

	u.Fragment = ""
	u.RawFragment = ""
	return u, nil
}

func isPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !(addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified() || addr.IsMulticast())
}
