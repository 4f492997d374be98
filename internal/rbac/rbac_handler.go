package rbac

import (
	"net/http"
	"strings"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}
	req.Role = strings.TrimSpace(req.Role)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		response.FromError(c, apperror.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

// Me lists what the calling role may do.
func (h *Handler) Me(c *gin.Context) {
	role := c.GetString(middleware.ContextActorRole)
	perms, err := h.service.Permissions(role)
	if err != nil {
		response.FromError(c, apperror.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, PermissionsResponse{Role: role, Permissions: perms}, nil)
}

func (h *Handler) Reload(c *gin.Context) {
	if err := h.service.Reload(); err != nil {
		response.FromError(c, apperror.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reloaded": true}, nil)
}
