package payroll

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotency frees the request lock and, on success, caches the
// response under the key set by the Idempotency middleware.
func (h *Handler) releaseIdempotency(c *gin.Context, result any, ok bool) {
	if h.rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		defer h.rdb.Del(ctx, lk)
	}
	if !ok {
		return
	}
	if ck := c.GetString("idempotency_cache_key"); ck != "" {
		if payload, err := json.Marshal(result); err == nil {
			_ = h.rdb.Set(ctx, ck, payload, idempotencyTTL).Err()
		}
	}
}

func (h *Handler) Process(c *gin.Context) {
	var req PayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotency(c, nil, false)
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	result, err := h.service.Process(c.Request.Context(), req)
	h.releaseIdempotency(c, result, err == nil)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result, nil)
}

func (h *Handler) CreateDraft(c *gin.Context) {
	var req PayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreateDraft(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateDraft(c *gin.Context) {
	var req PayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateDraft(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteDraft(c *gin.Context) {
	if err := h.service.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ProcessDraft(c *gin.Context) {
	result, err := h.service.ProcessDraft(c.Request.Context(), c.Param("id"))
	h.releaseIdempotency(c, result, err == nil)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, total, err := h.service.GetAll(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultListPageSize
	}
	meta := response.NewPaginationMeta(total, page, size)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetItems(c *gin.Context) {
	resp, err := h.service.GetItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPayslip(c *gin.Context) {
	resp, err := h.service.GetPayslip(c.Request.Context(), c.Param("id"), c.Param("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	id, employeeID := c.Param("id"), c.Param("employee_id")
	pdf, err := h.service.PayslipPDF(c.Request.Context(), id, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s-%s.pdf"`, id, employeeID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) ListErrors(c *gin.Context) {
	resp, err := h.service.ListErrors(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResolveError(c *gin.Context) {
	var req ResolveErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ResolveError(c.Request.Context(), c.Param("id"), c.Param("error_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkPosted(c *gin.Context) {
	resp, err := h.service.MarkPosted(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
