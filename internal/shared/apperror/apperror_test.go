package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-payroll/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps its status and code", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", apperror.ErrNotFound)
		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
		assert.Equal(t, "Resource not found", httpErr.Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.NotContains(t, httpErr.Message, "pq")
	})

	t.Run("details survive", func(t *testing.T) {
		err := apperror.ErrInvalidInput.WithDetails([]string{"a", "b"})
		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, []string{"a", "b"}, httpErr.Details)
		assert.Nil(t, apperror.ErrInvalidInput.Details)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	wrapped := apperror.Wrap(errors.New("boom"), apperror.CodeNotFound, "Resource not found", http.StatusNotFound)
	assert.ErrorIs(t, wrapped, apperror.ErrNotFound)
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", 500))
}

func TestMapValidationError(t *testing.T) {
	type req struct {
		RateAmount string `validate:"required"`
		Effect     string `validate:"oneof=addition deduction"`
	}
	v := validator.New()

	err := apperror.MapValidationError(v.Struct(req{Effect: "addition"}))
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Rateamount is required", appErr.Message)

	err = apperror.MapValidationError(v.Struct(req{RateAmount: "1", Effect: "bonus"}))
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Effect is invalid", appErr.Message)

	err = apperror.MapValidationError(errors.New("EOF"))
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestConfigureDecimalRules(t *testing.T) {
	type req struct {
		Rate decimal.Decimal `json:"payment_rate" validate:"gte=0,lte=100"`
	}
	v := validator.New()
	apperror.Configure(v)

	assert.NoError(t, v.Struct(req{Rate: decimal.NewFromInt(50)}))

	err := v.Struct(req{Rate: decimal.NewFromInt(150)})
	var verrs validator.ValidationErrors
	if assert.ErrorAs(t, err, &verrs) {
		assert.Equal(t, "payment_rate", verrs[0].Field())
		assert.Equal(t, "lte", verrs[0].Tag())
	}
}
