package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/auth"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/wardrobe/domain"
)

func (h *Handler) list(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), p, domain.Filter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	item, err := h.svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) create(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	var req domain.CreateInput
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	item, err := h.svc.Create(c.Request.Context(), p, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
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

	item, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) delete(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c)
}

func (h *Handler) enrich(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	item, cached, err := h.svc.Enrich(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "cached": cached})
}
