package middleware

import (
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authorizer decides whether a role may perform action on resource.
type Authorizer interface {
	Authorize(role, resource, action string) (bool, error)
}

func Authorize(authz Authorizer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextActorRole)
		if role == "" {
			response.FromError(c, apperror.ErrForbidden)
			c.Abort()
			return
		}

		allowed, err := authz.Authorize(role, resource, action)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), nil).Error("authorization check failed",
				zap.String("role", role),
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			response.FromError(c, apperror.ErrInternal)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message,
				gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}
