package middleware

import (
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger so services can log
// through contextutil.GetLogger without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		meta := contextutil.ExtractMetadata(ctx)

		reqLogger := logger.With(
			zap.String("request_id", meta.RequestID),
			zap.String("actor_id", meta.ActorID),
		)
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))
		c.Next()
	}
}
