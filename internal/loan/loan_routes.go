package loan

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authz middleware.Authorizer) {
	r.GET("/loan-types", middleware.Authorize(authz, "loan", "read"), handler.GetTypes)

	loans := r.Group("/loans")
	{
		loans.GET("", middleware.Authorize(authz, "loan", "read"), handler.GetAll)
		loans.POST("", middleware.Authorize(authz, "loan", "create"), handler.Create)
		loans.GET("/:id", middleware.Authorize(authz, "loan", "read"), handler.GetByID)
		loans.PUT("/:id", middleware.Authorize(authz, "loan", "update"), handler.Update)
		loans.POST("/:id/approve", middleware.Authorize(authz, "loan", "approve"), handler.Approve)
		loans.POST("/:id/reject", middleware.Authorize(authz, "loan", "approve"), handler.Reject)
		loans.POST("/:id/activate", middleware.Authorize(authz, "loan", "approve"), handler.Activate)
		loans.POST("/:id/repayments", middleware.Authorize(authz, "loan", "repay"), handler.Repay)
		loans.GET("/:id/repayments", middleware.Authorize(authz, "loan", "read"), handler.ListRepayments)
	}
}
