package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/enrichment"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/validation"
)

type Enricher interface {
	Enrich(ctx context.Context, rawURL string) (*enrichment.Product, bool, error)
}

type Handler struct {
	svc       Enricher
	validator *validation.Validator
}

func New(svc Enricher) *Handler {
	return &Handler{svc: svc, validator: validation.New()}
}

type enrichRequest struct {
	URL string `json:"url" validate:"required"`
}

func (h *Handler) enrich(c *gin.Context) {
	var req enrichRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		httpx.Error(c, err)
		return
	}

	product, cached, err := h.svc.Enrich(c.Request.Context(), req.URL)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product, "cached": cached})
}

// Register mounts POST /enrich on rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/enrich", h.enrich)
}
