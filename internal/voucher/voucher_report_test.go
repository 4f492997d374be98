package voucher_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/loan"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/tax"
	"go-payroll/internal/voucher"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var runDay = time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func staff(basic string, bankID uuid.UUID) employee.Employee {
	gradeID, stepID := uuid.New(), uuid.New()
	return employee.Employee{
		ID:            uuid.New(),
		Status:        employee.StatusActive,
		SalaryGradeID: &gradeID,
		SalaryGrade:   &employee.SalaryGrade{ID: gradeID, Grade: "G1", StepID: stepID, Amount: dec(basic)},
		BankID:        &bankID,
	}
}

func compute(t *testing.T, payrollID uuid.UUID, in payroll.EmployeeInput) []payroll.PayrollItem {
	t.Helper()
	b, perr := payroll.ComputeEmployee(payroll.RunInput{
		PayrollID:   payrollID,
		PaymentRate: dec("100"),
		Today:       runDay,
		Brackets:    []tax.Bracket{{Block: decimal.NewNullDecimal(dec("500")), Rate: dec("0")}, {Rate: dec("10")}},
	}, in)
	require.Nil(t, perr)
	return b.Items
}

type fixture struct {
	payrollID uuid.UUID
	gcb, ecb  uuid.UUID
	items     []payroll.PayrollItem
}

func newFixture(t *testing.T) fixture {
	f := fixture{payrollID: uuid.New(), gcb: uuid.New(), ecb: uuid.New()}

	a := staff("2000", f.gcb)
	b := staff("3000", f.gcb)
	c := staff("1500", f.ecb)
	c.TaxRelief = decimal.NewNullDecimal(dec("100"))

	end := runDay.AddDate(0, 3, 0)
	carLoan := loan.Loan{
		ID:                 uuid.New(),
		EmployeeID:         b.ID,
		LoanTypeID:         uuid.New(),
		LoanType:           &loan.LoanType{Name: "Car loan"},
		MonthlyInstallment: dec("150"),
		OutstandingBalance: dec("900"),
		Status:             loan.StatusActive,
		DeductionEndDate:   &end,
	}

	f.items = append(f.items, compute(t, f.payrollID, payroll.EmployeeInput{Employee: a})...)
	f.items = append(f.items, compute(t, f.payrollID, payroll.EmployeeInput{Employee: b, Loans: []loan.Loan{carLoan}})...)
	f.items = append(f.items, compute(t, f.payrollID, payroll.EmployeeInput{Employee: c})...)
	return f
}

func TestSummarize(t *testing.T) {
	f := newFixture(t)

	report := voucher.Summarize(f.items, map[uuid.UUID]string{f.gcb: "GCB", f.ecb: "Ecobank"})

	require.Len(t, report.Banks, 2)
	eco, gcb := report.Banks[0], report.Banks[1]
	assert.Equal(t, "Ecobank", eco.BankName)
	assert.Equal(t, "GCB", gcb.BankName)

	assert.Equal(t, 2, gcb.Employees)
	assert.True(t, gcb.Basic.Equal(dec("5000")))
	assert.True(t, gcb.EmployeeSSNIT.Equal(dec("275")))
	assert.True(t, gcb.EmployerSSNIT.Equal(dec("650")))
	assert.True(t, gcb.Loans.Equal(dec("150")))
	assert.True(t, gcb.LoansByType["Car loan"].Equal(dec("150")))
	assert.True(t, gcb.Balanced)

	// Relief sits on the debit side, so a bank carrying relief does not balance.
	assert.True(t, eco.TaxRelief.Equal(dec("100")))
	assert.False(t, eco.Balanced)
	assert.True(t, eco.TotalDebit.Sub(eco.TotalCredit).Equal(dec("100")))

	assert.Equal(t, 1, report.BalancedCount)
	assert.True(t, report.TotalNet.Equal(gcb.Net.Add(eco.Net)))
}

func TestSummarize_UnknownBankName(t *testing.T) {
	f := newFixture(t)

	report := voucher.Summarize(f.items, nil)

	require.Len(t, report.Banks, 2)
	for _, b := range report.Banks {
		assert.Equal(t, "Unassigned", b.BankName)
	}
}

type fakePayrolls struct {
	payroll.Repository
	p     *payroll.Payroll
	items []payroll.PayrollItem
}

func (f *fakePayrolls) FindByID(_ context.Context, id string) (*payroll.Payroll, error) {
	if f.p == nil || f.p.ID.String() != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.p, nil
}

func (f *fakePayrolls) ListItems(context.Context, uuid.UUID) ([]payroll.PayrollItem, error) {
	return f.items, nil
}

type fakeEmployees struct {
	employee.Repository
	banks []employee.Bank
}

func (f *fakeEmployees) FindBanks(context.Context) ([]employee.Bank, error) {
	return f.banks, nil
}

func TestVoucherService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := &payroll.Payroll{ID: f.payrollID, Reference: "PR-000003", Year: 2026, Month: 3, Status: payroll.StatusProcessed}
	svc := voucher.NewService(
		&fakePayrolls{p: p, items: f.items},
		&fakeEmployees{banks: []employee.Bank{{ID: f.gcb, Name: "GCB"}, {ID: f.ecb, Name: "Ecobank"}}},
	)

	t.Run("bank summary", func(t *testing.T) {
		resp, err := svc.BankSummary(ctx, p.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "PR-000003", resp.Reference)
		assert.Equal(t, 2, resp.BankCount)
		assert.Equal(t, 1, resp.BalancedCount)
		require.Len(t, resp.Banks[1].LoansByType, 1)
		assert.Equal(t, "150.00", resp.Banks[1].LoansByType[0].Amount)
	})

	t.Run("xlsx export", func(t *testing.T) {
		body, name, err := svc.ExportXLSX(ctx, p.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "voucher-PR-000003-2026-03.xlsx", name)

		wb, err := excelize.OpenReader(bytes.NewReader(body))
		require.NoError(t, err)
		defer wb.Close()

		bank, err := wb.GetCellValue("Voucher", "A3")
		require.NoError(t, err)
		assert.Equal(t, "Ecobank", bank)

		loanType, err := wb.GetCellValue("Loans", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Car loan", loanType)
	})

	t.Run("unknown payroll", func(t *testing.T) {
		_, err := svc.BankSummary(ctx, uuid.NewString())
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	})

	t.Run("draft payroll", func(t *testing.T) {
		draft := &payroll.Payroll{ID: uuid.New(), Status: payroll.StatusDraft}
		svc := voucher.NewService(&fakePayrolls{p: draft}, &fakeEmployees{})

		_, err := svc.BankSummary(ctx, draft.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrNotProcessed)
	})
}
