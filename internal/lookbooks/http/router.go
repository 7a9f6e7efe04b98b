package http

import "github.com/gin-gonic/gin"

// Register attaches lookbook routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)

	rg.POST("/:id/items", h.addItem)
	rg.PATCH("/:id/items/:itemId", h.updateItem)
	rg.DELETE("/:id/items/:itemId", h.removeItem)
}
