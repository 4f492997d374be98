package rbac

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authz middleware.Authorizer) {
	group := r.Group("/rbac")
	{
		group.GET("/me", handler.Me)
		group.POST("/enforce", middleware.Authorize(authz, "rbac", "read"), handler.Enforce)
		group.POST("/reload", middleware.Authorize(authz, "rbac", "manage"), handler.Reload)
	}
}
