package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authz middleware.Authorizer,
	rdb *redis.Client,
) {
	runGuards := []gin.HandlerFunc{middleware.RateLimitByActor(rate.Limit(1), 3)}
	if rdb != nil {
		runGuards = append(runGuards, middleware.Idempotency(rdb))
	}
	withRunGuards := func(action string, h gin.HandlerFunc) []gin.HandlerFunc {
		chain := append([]gin.HandlerFunc{middleware.Authorize(authz, "payroll", action)}, runGuards...)
		return append(chain, h)
	}

	payrolls := r.Group("/payrolls")
	{
		payrolls.GET("", middleware.Authorize(authz, "payroll", "read"), handler.GetAll)
		payrolls.POST("", middleware.Authorize(authz, "payroll", "create"), handler.CreateDraft)
		payrolls.POST("/process", withRunGuards("process", handler.Process)...)
		payrolls.GET("/:id", middleware.Authorize(authz, "payroll", "read"), handler.GetByID)
		payrolls.PUT("/:id", middleware.Authorize(authz, "payroll", "create"), handler.UpdateDraft)
		payrolls.DELETE("/:id", middleware.Authorize(authz, "payroll", "delete"), handler.DeleteDraft)
		payrolls.POST("/:id/process", withRunGuards("process", handler.ProcessDraft)...)
		payrolls.POST("/:id/post", middleware.Authorize(authz, "payroll", "post"), handler.MarkPosted)
		payrolls.GET("/:id/items", middleware.Authorize(authz, "payroll", "read"), handler.GetItems)
		payrolls.GET("/:id/payslips/:employee_id", middleware.Authorize(authz, "payslip", "read"), handler.GetPayslip)
		payrolls.GET("/:id/payslips/:employee_id/pdf", middleware.Authorize(authz, "payslip", "read"), handler.DownloadPayslip)
		payrolls.GET("/:id/errors", middleware.Authorize(authz, "payroll", "read"), handler.ListErrors)
		payrolls.PATCH("/:id/errors/:error_id", middleware.Authorize(authz, "payroll", "process"), handler.ResolveError)
	}
}
