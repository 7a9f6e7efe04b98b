package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/auth"
	"github.com/reoutfit/reoutfit-backend/internal/httpx"
	"github.com/reoutfit/reoutfit-backend/internal/lookbooks/domain"
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

	lookbooks, err := h.svc.List(c.Request.Context(), p, scope)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lookbooks": lookbooks})
}

func (h *Handler) get(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
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

	lb, err := h.svc.Create(c.Request.Context(), p, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lookbook": lb})
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

	lb, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lookbook": lb})
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

func (h *Handler) addItem(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	var req domain.LinkInput
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	link, err := h.svc.AddItem(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": link})
}

func (h *Handler) updateItem(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	var req domain.LinkUpdateInput
	if err := httpx.BindJSON(c, &req); err != nil {
		httpx.Error(c, err)
		return
	}

	link, err := h.svc.UpdateItem(c.Request.Context(), p, c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": link})
}

func (h *Handler) removeItem(c *gin.Context) {
	p, ok := auth.RequirePrincipal(c)
	if !ok {
		return
	}
	if err := h.svc.RemoveItem(c.Request.Context(), p, c.Param("id"), c.Param("itemId")); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c)
}
