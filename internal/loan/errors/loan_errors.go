package loanerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"Loan not found",
		http.StatusNotFound,
	)
	ErrLoanTypeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Loan type not found",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Employee not found",
		http.StatusBadRequest,
	)
	ErrInvalidLoanID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid loan ID",
		http.StatusBadRequest,
	)
	ErrInvalidPrincipal = apperror.New(
		apperror.CodeInvalidInput,
		"Principal must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidInterestRate = apperror.New(
		apperror.CodeInvalidInput,
		"Interest rate must be between 0 and 100",
		http.StatusBadRequest,
	)
	ErrInvalidDuration = apperror.New(
		apperror.CodeInvalidInput,
		"Duration must be at least one month",
		http.StatusBadRequest,
	)
	ErrSalaryAdvanceInterest = apperror.New(
		apperror.CodeInvalidInput,
		"Salary advance loans must carry 0% interest",
		http.StatusBadRequest,
	)
	ErrInvalidRepayment = apperror.New(
		apperror.CodeInvalidInput,
		"Repayment amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Loan status does not allow this action",
		http.StatusConflict,
	)
)
