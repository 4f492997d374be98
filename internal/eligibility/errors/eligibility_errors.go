package eligibilityerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrApplicableToExclusive = apperror.New(
		apperror.CodeInvalidInput,
		"applicable_to cannot be combined with other filters or excluded_from",
		http.StatusBadRequest,
	)
	ErrAllEmployeesExclusive = apperror.New(
		apperror.CodeInvalidInput,
		"all_employees cannot be combined with applicable_to or departments",
		http.StatusBadRequest,
	)
	ErrAllEmployeesUnsupported = apperror.New(
		apperror.CodeInvalidInput,
		"all_employees is not supported for salary items",
		http.StatusBadRequest,
	)
	ErrNoCriteria = apperror.New(
		apperror.CodeInvalidInput,
		"Select at least one filter, an employment type condition or an explicit employee list",
		http.StatusBadRequest,
	)
	ErrInvalidEmploymentType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employment type",
		http.StatusBadRequest,
	)
	ErrEmptyEligibleSet = apperror.New(
		apperror.CodeInvalidConfiguration,
		"No active employee matches the selected filters",
		http.StatusUnprocessableEntity,
	)
)
