package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
	StatusProbation  Status = "probation"
	StatusRetired    Status = "retired"
	StatusResigned   Status = "resigned"
)

// PayrollStatuses is the active population: only these employees are paid.
var PayrollStatuses = []Status{StatusActive, StatusOnLeave, StatusProbation}

type EmploymentType string

const (
	EmploymentFullTime    EmploymentType = "full_time"
	EmploymentPartTime    EmploymentType = "part_time"
	EmploymentContractual EmploymentType = "contractual"
	EmploymentTemporary   EmploymentType = "temporary"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContractual, EmploymentTemporary:
		return true
	}
	return false
}

type Employee struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	StaffNumber       string         `gorm:"uniqueIndex:uq_employee_staff_number"`
	FullName          string
	Status            Status         `gorm:"type:varchar(20);index"`
	EmploymentType    EmploymentType `gorm:"type:varchar(20)"`
	SalaryGradeID     *uuid.UUID     `gorm:"type:uuid"`
	SalaryGrade       *SalaryGrade   `gorm:"foreignKey:SalaryGradeID"`
	BankID            *uuid.UUID     `gorm:"type:uuid"`
	Bank              *Bank          `gorm:"foreignKey:BankID"`
	BankAccountNumber string
	DepartmentID      *uuid.UUID          `gorm:"type:uuid"`
	JobID             *uuid.UUID          `gorm:"type:uuid"`
	DesignationID     *uuid.UUID          `gorm:"type:uuid"`
	TaxRelief         decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e Employee) IsActive() bool {
	for _, s := range PayrollStatuses {
		if e.Status == s {
			return true
		}
	}
	return false
}

// BasicSalary is the grade amount, false when no grade is linked.
func (e Employee) BasicSalary() (decimal.Decimal, bool) {
	if e.SalaryGradeID == nil || e.SalaryGrade == nil {
		return decimal.Zero, false
	}
	return e.SalaryGrade.Amount, true
}

type SalaryStep struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

// SalaryGrade maps a grade+step pair to a basic salary.
type SalaryGrade struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Grade    string          `gorm:"uniqueIndex:uq_salary_grade_step"`
	StepID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:uq_salary_grade_step"`
	Step     *SalaryStep     `gorm:"foreignKey:StepID"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2)"`
	Currency string          `gorm:"type:varchar(3);default:GHS"`
}

type Bank struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
	Code string
}
