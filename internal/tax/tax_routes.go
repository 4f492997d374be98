package tax

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authz middleware.Authorizer) {
	taxes := r.Group("/taxes")
	{
		taxes.GET("/:year", middleware.Authorize(authz, "tax", "read"), handler.GetTable)
		taxes.PUT("/:year", middleware.Authorize(authz, "tax", "update"), handler.ReplaceTable)
		taxes.POST("/:year/calculate", middleware.Authorize(authz, "tax", "read"), handler.Calculate)
	}
}
