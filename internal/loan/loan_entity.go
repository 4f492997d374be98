package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusActive    Status = "active"
	StatusPaidOff   Status = "paid_off"
	StatusDefaulted Status = "defaulted"
	StatusRejected  Status = "rejected"
)

// daysPerMonth is the fixed month length used to derive the deduction end date.
const daysPerMonth = 30

type LoanType struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"uniqueIndex"`
	SalaryAdvance bool
}

type Loan struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID           uuid.UUID       `gorm:"type:uuid;index"`
	LoanTypeID           uuid.UUID       `gorm:"type:uuid"`
	LoanType             *LoanType       `gorm:"foreignKey:LoanTypeID"`
	Principal            decimal.Decimal `gorm:"type:numeric(14,2)"`
	InterestRate         decimal.Decimal `gorm:"type:numeric(5,2)"`
	DurationMonths       int
	MonthlyInstallment   decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalRepayableAmount decimal.Decimal `gorm:"type:numeric(14,2)"`
	OutstandingBalance   decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status               Status          `gorm:"type:varchar(12);index"`
	ActiveOn             *time.Time      `gorm:"type:date"`
	DeductionEndDate     *time.Time      `gorm:"type:date"`
	Purpose              string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LoanRepayment is never updated once written.
type LoanRepayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LoanID     uuid.UUID       `gorm:"type:uuid;index"`
	AmountPaid decimal.Decimal `gorm:"type:numeric(14,2)"`
	PaidOn     time.Time       `gorm:"type:date"`
	Reference  string
	CreatedAt  time.Time
}
