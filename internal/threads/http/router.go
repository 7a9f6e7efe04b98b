package http

import "github.com/gin-gonic/gin"

// Register attaches thread routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/validate/:id", h.validate)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}
