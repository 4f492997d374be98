package middleware

import (
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	ContextActorID   = "actor_id"
	ContextActorRole = "actor_role"
)

// ActorContext trusts the identity headers set by the upstream gateway.
// Requests without an actor id are rejected.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(HeaderActorID)
		role := c.GetHeader(HeaderActorRole)
		if actorID == "" {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(ContextActorID, actorID)
		c.Set(ContextActorRole, role)
		c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), actorID, role))
		c.Next()
	}
}
