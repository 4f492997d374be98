package salaryitem

import (
	"time"

	"go-payroll/internal/eligibility"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Effect string

const (
	EffectAddition  Effect = "addition"
	EffectDeduction Effect = "deduction"
)

type RateType string

const (
	RateFixed    RateType = "fixed"
	RateFactor   RateType = "factor"
	RateVariable RateType = "variable"
)

// DependencyBasic makes a factor item a percentage of the employee's basic salary.
const DependencyBasic = "Basic"

type SalaryItem struct {
	ID                    uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Name                  string                 `gorm:"uniqueIndex:uq_salary_item_name"`
	Effect                Effect                 `gorm:"type:varchar(10)"`
	RateType              RateType               `gorm:"type:varchar(10)"`
	RateAmount            decimal.Decimal        `gorm:"type:numeric(14,2)"`
	RateDependency        string                 `gorm:"type:varchar(36)"`
	ExpiresOn             *time.Time             `gorm:"type:date"`
	Filter                eligibility.FilterSpec `gorm:"type:jsonb;serializer:json"`
	EligibleEmployeeCount int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Expired reports whether the item no longer applies on the given day.
func (i SalaryItem) Expired(on time.Time) bool {
	if i.ExpiresOn == nil {
		return false
	}
	return i.ExpiresOn.Before(truncateDay(on))
}

func (i SalaryItem) rateSignature() string {
	return string(i.RateType) + "|" + i.RateAmount.String() + "|" + i.RateDependency
}

// StaffSalaryItem is the materialised assignment of an item to one employee.
type StaffSalaryItem struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	SalaryItemID uuid.UUID           `gorm:"type:uuid;uniqueIndex:uq_staff_salary_item"`
	SalaryItem   *SalaryItem         `gorm:"foreignKey:SalaryItemID"`
	EmployeeID   uuid.UUID           `gorm:"type:uuid;uniqueIndex:uq_staff_salary_item;index"`
	Amount       decimal.Decimal     `gorm:"type:numeric(14,2)"`
	Variable     decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
