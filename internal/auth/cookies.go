package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const (
	AccessCookie  = "sb-access-token"
	RefreshCookie = "sb-refresh-token"

	refreshCookieMaxAge = 30 * 24 * 60 * 60
	defaultAccessMaxAge = 60 * 60
	refreshGrace        = 24 * 60 * 60
)

// CookieConfig controls the attributes of session cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

// SetSession writes the access and refresh cookies for tok.
func (cc CookieConfig) SetSession(c *gin.Context, tok *oauth2.Token) {
	maxAge := defaultAccessMaxAge
	if !tok.Expiry.IsZero() {
		// keep the cookie around past expiry so the refresh path can read it
		maxAge = int(time.Until(tok.Expiry).Seconds()) + refreshGrace
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, tok.AccessToken, maxAge, "/", cc.Domain, cc.Secure, true)
	if tok.RefreshToken != "" {
		c.SetCookie(RefreshCookie, tok.RefreshToken, refreshCookieMaxAge, "/", cc.Domain, cc.Secure, true)
	}
}

// Clear expires both session cookies.
func (cc CookieConfig) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", cc.Domain, cc.Secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", cc.Domain, cc.Secure, true)
}
