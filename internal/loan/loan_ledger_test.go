package loan_test

import (
	"testing"
	"time"

	"go-payroll/internal/loan"
	loanerrors "go-payroll/internal/loan/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC) }

func TestAmortize(t *testing.T) {
	tests := []struct {
		name        string
		principal   string
		rate        string
		months      int
		total       string
		installment string
	}{
		{"simple interest", "1000", "10", 10, "1100.00", "110.00"},
		{"zero interest advance", "600", "0", 3, "600.00", "200.00"},
		{"installment rounds to cents", "1000", "0", 3, "1000.00", "333.33"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			total, installment, err := loan.Amortize(d(tc.principal), d(tc.rate), tc.months)
			require.NoError(t, err)
			assert.Equal(t, tc.total, total.StringFixed(2))
			assert.Equal(t, tc.installment, installment.StringFixed(2))
		})
	}

	t.Run("zero months rejected", func(t *testing.T) {
		_, _, err := loan.Amortize(d("100"), d("0"), 0)
		assert.ErrorIs(t, err, loanerrors.ErrInvalidDuration)
	})
}

func activeLoan(balance string, end time.Time) loan.Loan {
	return loan.Loan{
		MonthlyInstallment: d("110"),
		OutstandingBalance: d(balance),
		Status:             loan.StatusActive,
		DeductionEndDate:   &end,
	}
}

func TestApplyRepayment_NeverNegative(t *testing.T) {
	today := day(2026, 3, 1)
	l := activeLoan("50", day(2026, 12, 1))

	l.ApplyRepayment(d("80"), today)

	assert.True(t, l.OutstandingBalance.IsZero())
	assert.Equal(t, loan.StatusPaidOff, l.Status)
}

func TestApplyRepayment_PartialKeepsActive(t *testing.T) {
	l := activeLoan("1100", day(2026, 12, 1))

	l.ApplyRepayment(d("110"), day(2026, 3, 1))

	assert.Equal(t, "990.00", l.OutstandingBalance.StringFixed(2))
	assert.Equal(t, loan.StatusActive, l.Status)
}

func TestDeriveStatus(t *testing.T) {
	end := day(2026, 6, 1)
	tests := []struct {
		name  string
		loan  loan.Loan
		today time.Time
		want  loan.Status
	}{
		{"overdue with balance defaults", activeLoan("10", end), day(2026, 6, 2), loan.StatusDefaulted},
		{"on end date still active", activeLoan("10", end), end, loan.StatusActive},
		{"cleared balance pays off", activeLoan("0", end), day(2026, 7, 1), loan.StatusPaidOff},
		{"pending untouched", loan.Loan{Status: loan.StatusPending}, day(2026, 7, 1), loan.StatusPending},
		{"defaulted cleared pays off", loan.Loan{Status: loan.StatusDefaulted, DeductionEndDate: &end}, day(2026, 7, 1), loan.StatusPaidOff},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, loan.DeriveStatus(tc.loan, tc.today))
		})
	}
}

func TestActivate_SetsDeductionWindow(t *testing.T) {
	l := loan.Loan{DurationMonths: 10, Status: loan.StatusApproved}

	l.Activate(time.Date(2026, 1, 15, 13, 30, 0, 0, time.UTC))

	require.NotNil(t, l.ActiveOn)
	require.NotNil(t, l.DeductionEndDate)
	assert.Equal(t, loan.StatusActive, l.Status)
	assert.Equal(t, day(2026, 1, 15), *l.ActiveOn)
	assert.Equal(t, day(2026, 1, 15).AddDate(0, 0, 300), *l.DeductionEndDate)
}

func TestDeductible(t *testing.T) {
	today := day(2026, 3, 1)

	assert.True(t, activeLoan("100", day(2026, 3, 2)).Deductible(today))
	assert.False(t, activeLoan("100", today).Deductible(today), "end date must be after today")
	assert.False(t, activeLoan("0", day(2026, 12, 1)).Deductible(today))

	paused := activeLoan("100", day(2026, 12, 1))
	paused.Status = loan.StatusDefaulted
	assert.False(t, paused.Deductible(today))
}

func TestNextDeduction_CappedByBalance(t *testing.T) {
	assert.Equal(t, "110.00", activeLoan("500", day(2026, 12, 1)).NextDeduction().StringFixed(2))
	assert.Equal(t, "40.00", activeLoan("40", day(2026, 12, 1)).NextDeduction().StringFixed(2))
}
