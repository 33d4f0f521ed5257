package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the permission endpoints behind the auth chain.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlersChain) {
	rbac := r.Group("/rbac", auth...)
	rbac.GET("/me", h.Me)
	rbac.POST("/enforce", h.Enforce)
}
