package voucher

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authz middleware.Authorizer) {
	payrolls := r.Group("/payrolls")
	{
		payrolls.GET("/:id/voucher", middleware.Authorize(authz, "voucher", "read"), handler.BankSummary)
		payrolls.GET("/:id/voucher/export", middleware.Authorize(authz, "voucher", "export"), handler.Export)
	}
}
