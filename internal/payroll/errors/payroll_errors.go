package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

const CodePayrollAborted = "PAYROLL_ABORTED"

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrPayrollErrorNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll error not found",
		http.StatusNotFound,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee has no items in this payroll",
		http.StatusNotFound,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12 and year must be positive",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentRate = apperror.New(
		apperror.CodeInvalidInput,
		"payment rate must be between 1 and 100",
		http.StatusBadRequest,
	)
	ErrInvalidErrorMode = apperror.New(
		apperror.CodeInvalidInput,
		"error mode must be strict or mute",
		http.StatusBadRequest,
	)
	ErrNotDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll has already been processed",
		http.StatusConflict,
	)
	ErrNotProcessed = apperror.New(
		apperror.CodeInvalidState,
		"payroll has not been processed",
		http.StatusConflict,
	)
	ErrAlreadyPosted = apperror.New(
		apperror.CodeInvalidState,
		"payroll has already been posted",
		http.StatusConflict,
	)
	ErrRunInProgress = apperror.New(
		apperror.CodeConflict,
		"a payroll run for this period is already in progress",
		http.StatusConflict,
	)
	ErrPayrollAborted = apperror.New(
		CodePayrollAborted,
		"payroll aborted, no items were committed",
		http.StatusUnprocessableEntity,
	)
	ErrUnbalanced = apperror.New(
		apperror.CodeInternalError,
		"payroll items do not balance",
		http.StatusInternalServerError,
	)
	ErrPayrollFailed = apperror.New(
		apperror.CodeInternalError,
		"payroll could not be processed",
		http.StatusInternalServerError,
	)
)
