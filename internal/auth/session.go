package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
)

// Refresher exchanges a refresh token for a new session token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

var errMissingCredentials = apperr.Unauthenticated("authentication required")

// Resolver produces the principal of a request. Credentials are read from the
// Authorization header first, then from the session cookies. Cookie sessions
// close to expiry are refreshed when a refresh cookie and a Refresher exist.
type Resolver struct {
	verifier  Verifier
	refresher Refresher
	cookies   CookieConfig
	window    time.Duration
}

// NewResolver builds a resolver. refresher may be nil, which disables
// cookie refresh.
func NewResolver(verifier Verifier, refresher Refresher, cookies CookieConfig, window time.Duration) *Resolver {
	return &Resolver{
		verifier:  verifier,
		refresher: refresher,
		cookies:   cookies,
		window:    window,
	}
}

func (r *Resolver) Cookies() CookieConfig {
	return r.cookies
}

// Resolve returns the request principal or an unauthenticated error. It may
// rewrite the session cookies on c after a refresh.
func (r *Resolver) Resolve(c *gin.Context) (access.Principal, error) {
	ctx := c.Request.Context()

	if token, ok := BearerToken(c); ok {
		return r.verify(ctx, token)
	}

	accessToken, _ := c.Cookie(AccessCookie)
	refreshToken, _ := c.Cookie(RefreshCookie)
	if accessToken == "" && refreshToken == "" {
		return access.Principal{}, errMissingCredentials
	}

	if refreshToken != "" && r.refresher != nil {
		tok, err := r.currentToken(ctx, accessToken, refreshToken)
		if err != nil {
			return access.Principal{}, errInvalidToken.WithCause(err)
		}
		if tok.AccessToken != accessToken {
			r.cookies.SetSession(c, tok)
			logging.FromContext(ctx).Debug("session refreshed")
		}
		accessToken = tok.AccessToken
	}

	return r.verify(ctx, accessToken)
}

func (r *Resolver) verify(ctx context.Context, token string) (access.Principal, error) {
	p, err := r.verifier.Verify(ctx, token)
	if err != nil {
		if apperr.CodeOf(err) != apperr.CodeUnauthenticated {
			err = errInvalidToken.WithCause(err)
		}
		return access.Principal{}, err
	}
	return p, nil
}

// currentToken returns the cookie token unless it expires within the refresh
// window, in which case the refresh token is exchanged.
func (r *Resolver) currentToken(ctx context.Context, accessToken, refreshToken string) (*oauth2.Token, error) {
	var initial *oauth2.Token
	if accessToken != "" {
		initial = &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "bearer",
			Expiry:       TokenExpiry(accessToken),
		}
	}

	src := &refreshSource{ctx: ctx, refresher: r.refresher, refreshToken: refreshToken}
	return oauth2.ReuseTokenSourceWithExpiry(initial, src, r.window).Token()
}

// Require rejects requests without a valid principal and stores the
// principal for downstream handlers.
func (r *Resolver) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := r.Resolve(c)
		if err != nil {
			logging.FromContext(c.Request.Context()).Debug("request rejected", "error", err)
			httpx.Error(c, err)
			return
		}

		SetPrincipal(c, p)
		logger := logging.FromContext(c.Request.Context()).With("user_id", p.ID)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))

		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		if token := strings.TrimSpace(h[7:]); token != "" {
			return token, true
		}
	}
	return "", false
}

type refreshSource struct {
	ctx          context.Context
	refresher    Refresher
	refreshToken string
}

func (s *refreshSource) Token() (*oauth2.Token, error) {
	return s.refresher.Refresh(s.ctx, s.refreshToken)
}
