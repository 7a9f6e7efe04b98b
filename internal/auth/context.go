package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
)

const CtxPrincipal = "principal"

type principalKey struct{}

// SetPrincipal stores p in both the gin context and the request context.
func SetPrincipal(c *gin.Context, p access.Principal) {
	c.Set(CtxPrincipal, p)
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

// PrincipalFrom returns the principal set by the resolver middleware.
func PrincipalFrom(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok && p.ID != ""
}

func WithPrincipal(ctx context.Context, p access.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (access.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(access.Principal)
	return p, ok && p.ID != ""
}

// RequirePrincipal returns the request principal, writing a 401 and
// returning false when none was set.
func RequirePrincipal(c *gin.Context) (access.Principal, bool) {
	p, ok := PrincipalFrom(c)
	if !ok {
		httpx.Error(c, apperr.ErrUnauthenticated)
	}
	return p, ok
}
