package http

import "github.com/gin-gonic/gin"

// Register mounts the auth routes under rg. requireAuth guards /session.
func (h *Handler) Register(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g := rg.Group("/auth")
	if h.provider != nil {
		g.POST("/login", h.Login)
		g.POST("/signup", h.Signup)
	}
	g.POST("/logout", h.Logout)
	g.GET("/session", requireAuth, h.Session)
}
