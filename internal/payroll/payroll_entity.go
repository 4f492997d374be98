package payroll

import (
	"time"

	"go-payroll/internal/eligibility"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorMode string

const (
	ModeStrict ErrorMode = "strict"
	ModeMute   ErrorMode = "mute"
)

const (
	StatusDraft     = "draft"
	StatusProcessed = "processed"
)

// Entry is the ledger side of a PayrollItem. Memo rows carry figures for
// payslips and reports but take no part in the double-entry check.
type Entry string

const (
	EntryDebit  Entry = "debit"
	EntryCredit Entry = "credit"
	EntryMemo   Entry = "memo"
)

type ItemType string

const (
	ItemBasicSalary   ItemType = "basic_salary"
	ItemSalaryItem    ItemType = "salary_item"
	ItemEarning       ItemType = "earning"
	ItemDeduction     ItemType = "deduction"
	ItemCreditUnion   ItemType = "credit_union"
	ItemLoan          ItemType = "loan"
	ItemEmployerSSNIT ItemType = "employer_ssnit"
	ItemEmployeeSSNIT ItemType = "employee_ssnit"
	ItemTax           ItemType = "tax"
	ItemTaxRelief     ItemType = "tax_relief"
	ItemGrossSalary   ItemType = "gross_salary"
	ItemTaxability    ItemType = "taxability"
	ItemNetSalary     ItemType = "net_salary"
	ItemBank          ItemType = "bank"
	ItemSalaryGrade   ItemType = "salary_grade"
	ItemStep          ItemType = "step"
)

type ErrorCategory string

const (
	CategorySalaryGrade ErrorCategory = "salary_grade"
	CategoryBank        ErrorCategory = "bank"
	CategoryDoubleEntry ErrorCategory = "double_entry"
)

type Payroll struct {
	ID            uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Reference     string                 `gorm:"type:varchar(20);uniqueIndex"`
	Year          int                    `gorm:"index:idx_payroll_period"`
	Month         int                    `gorm:"index:idx_payroll_period"`
	PaymentRate   decimal.Decimal        `gorm:"type:numeric(5,2)"`
	Filter        eligibility.FilterSpec `gorm:"type:jsonb;serializer:json"`
	ErrorMode     ErrorMode              `gorm:"type:varchar(6)"`
	Status        string                 `gorm:"type:varchar(12);index"`
	Posted        bool
	EmployeeCount int
	ErrorCount    int
	CreatedBy     string `gorm:"type:varchar(64)"`
	ProcessedBy   string `gorm:"type:varchar(64)"`
	ProcessedAt   *time.Time
	PostedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Period is the first day of the processing month.
func (p Payroll) Period() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// PayrollItem is written once and never updated.
type PayrollItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayrollID     uuid.UUID       `gorm:"type:uuid;index:idx_payroll_item_employee"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;index:idx_payroll_item_employee"`
	ItemType      ItemType        `gorm:"type:varchar(20);index"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	Entry         Entry           `gorm:"type:varchar(6)"`
	Label         string          `gorm:"type:varchar(120)"`
	Effect        string          `gorm:"type:varchar(10)"`
	DependencyID  *uuid.UUID      `gorm:"type:uuid"`
	BankID        *uuid.UUID      `gorm:"type:uuid"`
	SalaryItemID  *uuid.UUID      `gorm:"type:uuid"`
	LoanID        *uuid.UUID      `gorm:"type:uuid"`
	CreditUnionID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time
}

type PayrollError struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	PayrollID  uuid.UUID     `gorm:"type:uuid;index"`
	EmployeeID uuid.UUID     `gorm:"type:uuid"`
	Category   ErrorCategory `gorm:"type:varchar(20)"`
	Detail     string        `gorm:"type:text"`
	Resolved   bool
	ResolvedBy string `gorm:"type:varchar(64)"`
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

// Message is the operator-facing line returned by a failed strict run.
func (e PayrollError) Message() string {
	return string(e.Category) + ": " + e.Detail
}
