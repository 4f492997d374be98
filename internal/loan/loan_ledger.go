package loan

import (
	"time"

	loanerrors "go-payroll/internal/loan/errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Amortize applies simple interest: total = principal x (1 + rate/100), spread evenly.
func Amortize(principal, rate decimal.Decimal, months int) (total, installment decimal.Decimal, err error) {
	if months <= 0 {
		return decimal.Zero, decimal.Zero, loanerrors.ErrInvalidDuration
	}
	total = principal
	if !rate.IsZero() {
		total = principal.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred)))
	}
	total = total.Round(2)
	installment = total.Div(decimal.NewFromInt(int64(months))).Round(2)
	return total, installment, nil
}

// Recalculate resets the schedule and balance from principal and rate.
// Only safe before any repayment has been applied.
func (l *Loan) Recalculate() error {
	total, installment, err := Amortize(l.Principal, l.InterestRate, l.DurationMonths)
	if err != nil {
		return err
	}
	l.TotalRepayableAmount = total
	l.MonthlyInstallment = installment
	l.OutstandingBalance = total
	return nil
}

// Activate starts deductions and fixes the deduction end date.
func (l *Loan) Activate(on time.Time) {
	activeOn := truncateDay(on)
	end := activeOn.AddDate(0, 0, daysPerMonth*l.DurationMonths)
	l.ActiveOn = &activeOn
	l.DeductionEndDate = &end
	l.Status = StatusActive
}

// DeriveStatus re-evaluates a running loan: overdue with a balance is
// defaulted, a cleared balance is paid off. Other states are left alone.
func DeriveStatus(l Loan, today time.Time) Status {
	if l.Status != StatusActive && l.Status != StatusDefaulted {
		return l.Status
	}
	if l.DeductionEndDate != nil && truncateDay(today).After(*l.DeductionEndDate) && l.OutstandingBalance.IsPositive() {
		return StatusDefaulted
	}
	if !l.OutstandingBalance.IsPositive() {
		return StatusPaidOff
	}
	return l.Status
}

// ApplyRepayment lowers the balance, floored at zero, and re-derives status.
func (l *Loan) ApplyRepayment(amount decimal.Decimal, today time.Time) {
	balance := l.OutstandingBalance.Sub(amount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	l.OutstandingBalance = balance
	l.Status = DeriveStatus(*l, today)
}

// Deductible reports whether payroll should withhold an installment on today.
func (l Loan) Deductible(today time.Time) bool {
	return l.Status == StatusActive &&
		l.OutstandingBalance.IsPositive() &&
		l.DeductionEndDate != nil &&
		l.DeductionEndDate.After(truncateDay(today))
}

// NextDeduction is the installment capped by what is still owed.
func (l Loan) NextDeduction() decimal.Decimal {
	return decimal.Min(l.MonthlyInstallment, l.OutstandingBalance)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
