package creditunion

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authz middleware.Authorizer) {
	unions := r.Group("/credit-unions")
	{
		unions.GET("", middleware.Authorize(authz, "credit_union", "read"), handler.GetAll)
		unions.POST("", middleware.Authorize(authz, "credit_union", "create"), handler.Create)
		unions.GET("/:id", middleware.Authorize(authz, "credit_union", "read"), handler.GetByID)
		unions.PUT("/:id", middleware.Authorize(authz, "credit_union", "update"), handler.Update)
		unions.DELETE("/:id", middleware.Authorize(authz, "credit_union", "delete"), handler.Delete)
		unions.GET("/:id/members", middleware.Authorize(authz, "credit_union", "read"), handler.ListMembers)
		unions.PUT("/:id/members/:employee_id", middleware.Authorize(authz, "credit_union", "update"), handler.UpdateMember)
	}
}
