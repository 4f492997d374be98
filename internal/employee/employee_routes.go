package employee

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authz middleware.Authorizer) {
	employees := r.Group("/employees")
	{
		employees.GET("", middleware.Authorize(authz, "employee", "read"), handler.GetActive)
		employees.GET("/:id", middleware.Authorize(authz, "employee", "read"), handler.GetByID)
	}
}
