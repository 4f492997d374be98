package creditunionerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrCreditUnionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Credit union not found",
		http.StatusNotFound,
	)
	ErrMemberNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee is not a member of this credit union",
		http.StatusNotFound,
	)
	ErrInvalidCreditUnionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid credit union ID",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"End date cannot be before start date",
		http.StatusBadRequest,
	)
	ErrNameExists = apperror.New(
		apperror.CodeConflict,
		"Credit union name already exists",
		http.StatusConflict,
	)
	ErrCreditUnionInUse = apperror.New(
		apperror.CodeInvalidState,
		"Credit union has recorded deductions and cannot be deleted",
		http.StatusConflict,
	)
)
