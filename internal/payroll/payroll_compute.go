package payroll

import (
	"fmt"
	"time"

	"go-payroll/internal/creditunion"
	"go-payroll/internal/employee"
	"go-payroll/internal/loan"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salaryitem"
	"go-payroll/internal/tax"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred           = decimal.NewFromInt(100)
	employerSSNITRate = decimal.RequireFromString("13")
	employeeSSNITRate = decimal.RequireFromString("5.5")
)

// RunInput is the configuration snapshot shared by every employee in a run.
type RunInput struct {
	PayrollID   uuid.UUID
	PaymentRate decimal.Decimal
	Today       time.Time
	Brackets    []tax.Bracket
}

// EmployeeInput is everything one employee's breakdown depends on.
type EmployeeInput struct {
	Employee     employee.Employee
	SalaryItems  []salaryitem.StaffSalaryItem
	CreditUnions []creditunion.StaffCreditUnion
	Loans        []loan.Loan
}

// Breakdown is one employee's computed pay and the rows that record it.
type Breakdown struct {
	EmployeeID      uuid.UUID
	Basic           decimal.Decimal
	Earnings        decimal.Decimal
	ItemDeductions  decimal.Decimal
	CreditUnions    decimal.Decimal
	Loans           decimal.Decimal
	EmployerSSNIT   decimal.Decimal
	EmployeeSSNIT   decimal.Decimal
	TaxRelief       decimal.Decimal
	Gross           decimal.Decimal
	Taxable         decimal.Decimal
	IncomeTax       decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal

	Items      []PayrollItem
	Deductions []creditunion.StaffCreditUnionDeduction
}

func percentOf(rate, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred).Round(2)
}

func employeeError(run RunInput, e employee.Employee, category ErrorCategory, detail string) *PayrollError {
	return &PayrollError{
		ID:         uuid.New(),
		PayrollID:  run.PayrollID,
		EmployeeID: e.ID,
		Category:   category,
		Detail:     detail,
	}
}

func displayName(e employee.Employee) string {
	if e.StaffNumber != "" {
		return fmt.Sprintf("%s (%s)", e.FullName, e.StaffNumber)
	}
	return e.FullName
}

// ComputeEmployee produces one employee's gross-to-net breakdown. A non-nil
// PayrollError means the employee is excluded and Breakdown is nil.
func ComputeEmployee(run RunInput, in EmployeeInput) (*Breakdown, *PayrollError) {
	e := in.Employee

	basic, ok := e.BasicSalary()
	if !ok {
		return nil, employeeError(run, e, CategorySalaryGrade,
			fmt.Sprintf("employee %s has no salary grade", displayName(e)))
	}
	if e.BankID == nil {
		return nil, employeeError(run, e, CategoryBank,
			fmt.Sprintf("employee %s has no bank details", displayName(e)))
	}

	b := &Breakdown{EmployeeID: e.ID, Basic: basic}
	add := func(item PayrollItem) {
		item.ID = uuid.New()
		item.PayrollID = run.PayrollID
		item.EmployeeID = e.ID
		b.Items = append(b.Items, item)
	}

	b.EmployerSSNIT = percentOf(employerSSNITRate, basic)
	b.EmployeeSSNIT = percentOf(employeeSSNITRate, basic)

	for _, row := range in.SalaryItems {
		item := row.SalaryItem
		if item == nil || item.Expired(run.Today) {
			continue
		}
		switch item.Effect {
		case salaryitem.EffectAddition:
			b.Earnings = b.Earnings.Add(row.Amount)
		case salaryitem.EffectDeduction:
			b.ItemDeductions = b.ItemDeductions.Add(row.Amount)
		default:
			continue
		}
		itemID := item.ID
		add(PayrollItem{
			ItemType:     ItemSalaryItem,
			Amount:       row.Amount,
			Entry:        EntryMemo,
			Label:        item.Name,
			Effect:       string(item.Effect),
			SalaryItemID: &itemID,
		})
	}
	add(PayrollItem{ItemType: ItemEarning, Amount: b.Earnings, Entry: EntryDebit})
	add(PayrollItem{ItemType: ItemDeduction, Amount: b.ItemDeductions, Entry: EntryCredit})

	for _, sub := range in.CreditUnions {
		if !sub.Active(run.Today) {
			continue
		}
		b.CreditUnions = b.CreditUnions.Add(sub.Amount)
		cuID := sub.CreditUnionID
		label := ""
		if sub.CreditUnion != nil {
			label = sub.CreditUnion.Name
		}
		add(PayrollItem{
			ItemType:      ItemCreditUnion,
			Amount:        sub.Amount,
			Entry:         EntryCredit,
			Label:         label,
			CreditUnionID: &cuID,
		})
		b.Deductions = append(b.Deductions, creditunion.StaffCreditUnionDeduction{
			ID:                 uuid.New(),
			StaffCreditUnionID: sub.ID,
			CreditUnionID:      sub.CreditUnionID,
			EmployeeID:         e.ID,
			PayrollID:          run.PayrollID,
			Amount:             sub.Amount,
			DeductedOn:         run.Today,
		})
	}

	for _, l := range in.Loans {
		if !l.Deductible(run.Today) {
			continue
		}
		repayment := l.NextDeduction()
		b.Loans = b.Loans.Add(repayment)
		loanID, typeID := l.ID, l.LoanTypeID
		label := ""
		if l.LoanType != nil {
			label = l.LoanType.Name
		}
		add(PayrollItem{
			ItemType:     ItemLoan,
			Amount:       repayment,
			Entry:        EntryCredit,
			Label:        label,
			LoanID:       &loanID,
			DependencyID: &typeID,
		})
	}

	b.Gross = basic.Add(b.Earnings)
	if e.TaxRelief.Valid {
		b.TaxRelief = percentOf(run.PaymentRate, e.TaxRelief.Decimal)
	}
	b.Taxable = b.Gross.Sub(b.EmployeeSSNIT).Sub(b.TaxRelief)
	b.IncomeTax = tax.Calculate(run.Brackets, b.Taxable)

	b.TotalDeductions = b.ItemDeductions.
		Add(b.CreditUnions).
		Add(b.Loans).
		Add(b.IncomeTax).
		Add(b.EmployeeSSNIT)
	b.Net = b.Gross.Sub(b.TotalDeductions)

	bankID := *e.BankID
	gradeID := e.SalaryGrade.ID
	stepID := e.SalaryGrade.StepID
	add(PayrollItem{ItemType: ItemBasicSalary, Amount: basic, Entry: EntryDebit})
	add(PayrollItem{ItemType: ItemGrossSalary, Amount: b.Gross, Entry: EntryMemo})
	add(PayrollItem{ItemType: ItemNetSalary, Amount: b.Net, Entry: EntryMemo})
	add(PayrollItem{ItemType: ItemTaxability, Amount: b.Taxable, Entry: EntryMemo})
	add(PayrollItem{ItemType: ItemBank, Amount: b.Net, Entry: EntryCredit, BankID: &bankID})
	add(PayrollItem{ItemType: ItemTax, Amount: b.IncomeTax, Entry: EntryCredit})
	add(PayrollItem{ItemType: ItemEmployerSSNIT, Amount: b.EmployerSSNIT, Entry: EntryMemo})
	add(PayrollItem{ItemType: ItemEmployeeSSNIT, Amount: b.EmployeeSSNIT, Entry: EntryCredit})
	add(PayrollItem{ItemType: ItemTaxRelief, Amount: b.TaxRelief, Entry: EntryMemo})
	add(PayrollItem{ItemType: ItemSalaryGrade, Amount: basic, Entry: EntryMemo, Label: e.SalaryGrade.Grade, DependencyID: &gradeID})
	stepLabel := ""
	if e.SalaryGrade.Step != nil {
		stepLabel = e.SalaryGrade.Step.Name
	}
	add(PayrollItem{ItemType: ItemStep, Amount: basic, Entry: EntryMemo, Label: stepLabel, DependencyID: &stepID})

	if err := VerifyDoubleEntry(b); err != nil {
		return nil, employeeError(run, e, CategoryDoubleEntry,
			fmt.Sprintf("employee %s: %s", displayName(e), err.Error()))
	}
	return b, nil
}

// Totals sums the debit and credit rows. Memo rows are ignored.
func Totals(items []PayrollItem) (debit, credit decimal.Decimal) {
	for _, it := range items {
		switch it.Entry {
		case EntryDebit:
			debit = debit.Add(it.Amount)
		case EntryCredit:
			credit = credit.Add(it.Amount)
		}
	}
	return debit, credit
}

// VerifyDoubleEntry checks that the debit rows add up to gross, the credit
// rows to net plus total deductions, and that both sides agree exactly.
func VerifyDoubleEntry(b *Breakdown) error {
	debit, credit := Totals(b.Items)
	expectedCredit := b.Net.Add(b.TotalDeductions)

	switch {
	case !debit.Equal(b.Gross):
		return fmt.Errorf("%w: debit %s does not match gross %s",
			payrollerrors.ErrUnbalanced, debit.StringFixed(2), b.Gross.StringFixed(2))
	case !credit.Equal(expectedCredit):
		return fmt.Errorf("%w: credit %s does not match net plus deductions %s",
			payrollerrors.ErrUnbalanced, credit.StringFixed(2), expectedCredit.StringFixed(2))
	case !debit.Equal(credit):
		return fmt.Errorf("%w: debit %s does not equal credit %s",
			payrollerrors.ErrUnbalanced, debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}
