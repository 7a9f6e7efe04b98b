package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/apperr"
	"github.com/reoutfit/reoutfit-backend/internal/auth"
	"github.com/reoutfit/reoutfit-backend/internal/auth/supabase"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/logging"
	"github.com/reoutfit/reoutfit-backend/internal/validation"
)

type Handler struct {
	provider  SessionProvider
	resolver  *auth.Resolver
	validator *validation.Validator
	onLogout  func(userID string)
}

// New builds the auth handler. provider may be nil when sessions are issued
// elsewhere (Firebase); login and signup are then not registered.
func New(provider SessionProvider, resolver *auth.Resolver, onLogout func(userID string)) *Handler {
	return &Handler{
		provider:  provider,
		resolver:  resolver,
		validator: validation.New(),
		onLogout:  onLogout,
	}
}

// Login signs in with email and password and sets the session cookies.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	session, err := h.provider.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && apiErr.ClientError() {
			httpx.Error(c, apperr.Unauthenticated("invalid email or password"))
			return
		}
		httpx.Error(c, apperr.Upstream("failed to sign in", err))
		return
	}

	h.resolver.Cookies().SetSession(c, session.Token())
	c.JSON(http.StatusOK, userResponse{User: access.Principal{ID: session.User.ID, Email: session.User.Email}})
}

// Signup registers a user. Cookies are set when the provider returns a
// session immediately.
func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	session, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && apiErr.ClientError() {
			httpx.Error(c, apperr.Validation(apiErr.Message, nil))
			return
		}
		httpx.Error(c, apperr.Upstream("failed to sign up", err))
		return
	}

	if session.AccessToken != "" {
		h.resolver.Cookies().SetSession(c, session.Token())
	}
	c.JSON(http.StatusOK, userResponse{User: access.Principal{ID: session.User.ID, Email: session.User.Email}})
}

// Logout revokes the upstream session when possible, clears the cookies and
// drops cached state for the principal. It always succeeds.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	p, err := h.resolver.Resolve(c)
	if err == nil && h.onLogout != nil {
		h.onLogout(p.ID)
	}

	if h.provider != nil {
		token, ok := auth.BearerToken(c)
		if !ok {
			token, _ = c.Cookie(auth.AccessCookie)
		}
		if token != "" {
			if err := h.provider.SignOut(ctx, token); err != nil {
				logger.Warn("upstream sign out failed", "error", err)
			}
		}
	}

	h.resolver.Cookies().Clear(c)
	httpx.Success(c)
}

// Session returns the authenticated principal.
func (h *Handler) Session(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		httpx.Error(c, apperr.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, userResponse{User: p})
}

func (h *Handler) bind(c *gin.Context, req *credentialsRequest) error {
	if err := httpx.BindJSON(c, req); err != nil {
		return err
	}
	return h.validator.Validate(req)
}
