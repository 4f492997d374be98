package salaryitem

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authz middleware.Authorizer) {
	items := r.Group("/salary-items")
	{
		items.GET("", middleware.Authorize(authz, "salary_item", "read"), handler.GetAll)
		items.POST("", middleware.Authorize(authz, "salary_item", "create"), handler.Create)
		items.GET("/:id", middleware.Authorize(authz, "salary_item", "read"), handler.GetByID)
		items.PUT("/:id", middleware.Authorize(authz, "salary_item", "update"), handler.Update)
		items.DELETE("/:id", middleware.Authorize(authz, "salary_item", "delete"), handler.Delete)
		items.GET("/:id/staff", middleware.Authorize(authz, "salary_item", "read"), handler.ListStaff)
		items.PUT("/:id/staff/:employee_id/variable", middleware.Authorize(authz, "salary_item", "update"), handler.SetVariable)
	}
}
