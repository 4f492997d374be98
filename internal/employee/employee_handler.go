package employee

import (
	"net/http"
	"strconv"
	"strings"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetActive(c *gin.Context) {
	resp, err := h.service.GetActive(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	employmentType := EmploymentType(c.Query("employment_type"))
	if employmentType != "" && !employmentType.Valid() {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmploymentType)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" || employmentType != "" {
		filtered := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			if employmentType != "" && e.EmploymentType != string(employmentType) {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(e.FullName), q) && !strings.Contains(strings.ToLower(e.StaffNumber), q) {
				continue
			}
			filtered = append(filtered, e)
		}
		resp = filtered
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start > len(resp) {
		start = len(resp)
	}
	end := start + pageSize
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(int64(len(resp)), page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
