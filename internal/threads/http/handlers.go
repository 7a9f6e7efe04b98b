package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/auth"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/threads/domain"
	"github.com/reoutfit/reoutfit-backend/internal/threads/service"
)

func (h *Handler) list(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	scope, err := access.ParseScope(c.Query("scope"))
	if err != nil {
		httpx.Error(c, err)
		return
	}

	threads, err := h.svc.List(c.Request.Context(), p, scope)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
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

	thread, err := h.svc.Create(c.Request.Context(), p, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"thread": thread})
}

// validate answers whether the caller can open a thread; a miss is a 404
// with {exists:false} rather than the usual error body.
func (h *Handler) validate(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	v, err := h.svc.Validate(c.Request.Context(), p, c.Param("id"))
	if service.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"exists": false})
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "thread": v})
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

	thread, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thread": thread})
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
