package taxerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrNoBrackets = apperror.New(
		apperror.CodeInvalidConfiguration,
		"No tax table configured for this year",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid tax year",
		http.StatusBadRequest,
	)
	ErrNotCurrentYear = apperror.New(
		apperror.CodeInvalidState,
		"Only the current year's tax table can be replaced",
		http.StatusConflict,
	)
	ErrBlocksNotAscending = apperror.New(
		apperror.CodeInvalidInput,
		"Tax blocks must ascend as rates ascend",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"Tax rate must be between 0 and 100",
		http.StatusBadRequest,
	)
	ErrOpenBlockNotLast = apperror.New(
		apperror.CodeInvalidInput,
		"Only the highest bracket may have an empty block",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amount cannot be negative",
		http.StatusBadRequest,
	)
)
