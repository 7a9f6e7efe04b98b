package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/auth"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/profiles/domain"
)

type Service interface {
	Get(ctx context.Context, p access.Principal) (*domain.Profile, error)
	Update(ctx context.Context, p access.Principal, in domain.UpdateInput) (*domain.Profile, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts GET and PATCH on the group root.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
	rg.PATCH("", h.update)
}

func (h *Handler) get(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	prof, err := h.svc.Get(c.Request.Context(), p)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": prof})
}

func (h *Handler) update(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	var req domain.UpdateInput
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}
	prof, err := h.svc.Update(c.Request.Context(), p, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": prof})
}
