package eligibility

import (
	"go-payroll/internal/employee"

	"github.com/google/uuid"
)

// FilterSpec selects employees for a salary item, credit union or payroll run.
// Empty dimensions are unconstrained; non-empty dimensions are ANDed.
type FilterSpec struct {
	EmploymentType employee.EmploymentType `json:"employment_type,omitempty"`
	Steps          []uuid.UUID             `json:"steps,omitempty"`
	SalaryGrades   []uuid.UUID             `json:"salary_grades,omitempty"`
	Jobs           []uuid.UUID             `json:"jobs,omitempty"`
	Departments    []uuid.UUID             `json:"departments,omitempty"`
	Designations   []uuid.UUID             `json:"designations,omitempty"`
	ApplicableTo   []uuid.UUID             `json:"applicable_to,omitempty"`
	ExcludedFrom   []uuid.UUID             `json:"excluded_from,omitempty"`
	AllEmployees   bool                    `json:"all_employees,omitempty"`
}

func (s FilterSpec) hasPositiveFilter() bool {
	return s.EmploymentType != "" ||
		len(s.Steps) > 0 ||
		len(s.SalaryGrades) > 0 ||
		len(s.Jobs) > 0 ||
		len(s.Departments) > 0 ||
		len(s.Designations) > 0
}

// Mode selects which configuration rules Validate applies.
type Mode int

const (
	ModeSalaryItem Mode = iota
	ModeCreditUnion
	ModePayroll
)
