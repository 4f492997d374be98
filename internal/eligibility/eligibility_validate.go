package eligibility

import (
	eligibilityerrors "go-payroll/internal/eligibility/errors"
)

// Validate enforces the mutually exclusive selection modes at the configuration boundary.
func Validate(spec FilterSpec, mode Mode) error {
	if spec.EmploymentType != "" && !spec.EmploymentType.Valid() {
		return eligibilityerrors.ErrInvalidEmploymentType
	}

	if len(spec.ApplicableTo) > 0 && (spec.hasPositiveFilter() || len(spec.ExcludedFrom) > 0) {
		return eligibilityerrors.ErrApplicableToExclusive
	}

	if spec.AllEmployees {
		if mode == ModeSalaryItem {
			return eligibilityerrors.ErrAllEmployeesUnsupported
		}
		if len(spec.ApplicableTo) > 0 || len(spec.Departments) > 0 {
			return eligibilityerrors.ErrAllEmployeesExclusive
		}
		return nil
	}

	if len(spec.ApplicableTo) == 0 && !spec.hasPositiveFilter() {
		return eligibilityerrors.ErrNoCriteria
	}
	return nil
}
