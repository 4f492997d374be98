package salaryitemerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrSalaryItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary item not found",
		http.StatusNotFound,
	)
	ErrStaffSalaryItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee is not assigned to this salary item",
		http.StatusNotFound,
	)
	ErrInvalidSalaryItemID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid salary item ID",
		http.StatusBadRequest,
	)
	ErrInvalidRateType = apperror.New(
		apperror.CodeInvalidInput,
		"Rate type must be fixed, factor or variable",
		http.StatusBadRequest,
	)
	ErrInvalidEffect = apperror.New(
		apperror.CodeInvalidInput,
		"Effect must be addition or deduction",
		http.StatusBadRequest,
	)
	ErrNegativeRate = apperror.New(
		apperror.CodeInvalidInput,
		"Rate amount cannot be negative",
		http.StatusBadRequest,
	)
	ErrDependencyRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Factor items need a rate dependency",
		http.StatusBadRequest,
	)
	ErrDependencyNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Rate dependency must be Basic or an existing salary item",
		http.StatusBadRequest,
	)
	ErrSelfDependency = apperror.New(
		apperror.CodeInvalidInput,
		"A salary item cannot depend on itself",
		http.StatusBadRequest,
	)
	ErrInvalidExpiry = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid expires_on, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNotVariable = apperror.New(
		apperror.CodeInvalidState,
		"Multipliers can only be set on variable salary items",
		http.StatusConflict,
	)
	ErrNegativeMultiplier = apperror.New(
		apperror.CodeInvalidInput,
		"Multiplier cannot be negative",
		http.StatusBadRequest,
	)
	ErrSalaryItemNameExists = apperror.New(
		apperror.CodeConflict,
		"A salary item with the same name already exists",
		http.StatusConflict,
	)
	ErrSalaryItemInUse = apperror.New(
		apperror.CodeInvalidState,
		"Salary item is referenced by another item or a processed payroll",
		http.StatusConflict,
	)
)
