package tax

import (
	"net/http"
	"strconv"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
	taxerrors "go-payroll/internal/tax/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("tax.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tax.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("tax request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 {
		return 0, false
	}
	return year, true
}

func (h *Handler) GetTable(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		h.writeServiceError(c, taxerrors.ErrInvalidYear)
		return
	}

	resp, err := h.service.GetTable(c.Request.Context(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ReplaceTable(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		h.writeServiceError(c, taxerrors.ErrInvalidYear)
		return
	}

	var req ReplaceTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http replace tax table validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ReplaceYear(c.Request.Context(), year, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Calculate(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		h.writeServiceError(c, taxerrors.ErrInvalidYear)
		return
	}

	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	amount, err := h.service.Calculate(c.Request.Context(), year, req.Amount)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, CalculateResponse{
		Year:    year,
		Taxable: req.Amount.StringFixed(2),
		Tax:     amount.StringFixed(2),
	}, nil)
}
