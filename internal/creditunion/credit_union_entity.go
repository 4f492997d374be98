package creditunion

import (
	"time"

	"go-payroll/internal/eligibility"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditUnion struct {
	ID                    uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Name                  string                 `gorm:"uniqueIndex:uq_credit_union_name"`
	DefaultAmount         decimal.Decimal        `gorm:"type:numeric(14,2)"`
	StartDate             time.Time              `gorm:"type:date"`
	EndDate               *time.Time             `gorm:"type:date"`
	Filter                eligibility.FilterSpec `gorm:"type:jsonb;serializer:json"`
	EligibleEmployeeCount int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// StaffCreditUnion is one employee's subscription. Amount and window start
// from the union defaults and may be overridden per member.
type StaffCreditUnion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CreditUnionID uuid.UUID       `gorm:"type:uuid;uniqueIndex:uq_staff_credit_union"`
	CreditUnion   *CreditUnion    `gorm:"foreignKey:CreditUnionID"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:uq_staff_credit_union;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	StartDate     time.Time       `gorm:"type:date"`
	EndDate       *time.Time      `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Active reports whether the subscription window covers the given day.
func (m StaffCreditUnion) Active(on time.Time) bool {
	day := truncateDay(on)
	if m.StartDate.After(day) {
		return false
	}
	return m.EndDate == nil || !m.EndDate.Before(day)
}

// StaffCreditUnionDeduction records an amount withheld by a payroll run.
type StaffCreditUnionDeduction struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StaffCreditUnionID uuid.UUID       `gorm:"type:uuid;index"`
	CreditUnionID      uuid.UUID       `gorm:"type:uuid;index"`
	EmployeeID         uuid.UUID       `gorm:"type:uuid;index"`
	PayrollID          uuid.UUID       `gorm:"type:uuid;index"`
	Amount             decimal.Decimal `gorm:"type:numeric(14,2)"`
	DeductedOn         time.Time       `gorm:"type:date"`
	CreatedAt          time.Time
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
