package voucher

import (
	"sort"

	"go-payroll/internal/payroll"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const unassignedBank = "Unassigned"

// BankTotals aggregates one bank's share of a payroll run.
type BankTotals struct {
	BankID        uuid.UUID
	BankName      string
	Employees     int
	Basic         decimal.Decimal
	Earnings      decimal.Decimal
	Deductions    decimal.Decimal
	CreditUnions  decimal.Decimal
	Loans         decimal.Decimal
	LoansByType   map[string]decimal.Decimal
	EmployeeSSNIT decimal.Decimal
	EmployerSSNIT decimal.Decimal
	Tax           decimal.Decimal
	TaxRelief     decimal.Decimal
	Net           decimal.Decimal
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	Balanced      bool
}

type Report struct {
	Banks         []BankTotals
	BalancedCount int
	TotalNet      decimal.Decimal
}

// Summarize groups items by the bank each employee is paid into and checks
// every bank's debit and credit totals against each other. It never mutates items.
func Summarize(items []payroll.PayrollItem, bankNames map[uuid.UUID]string) Report {
	bankOf := make(map[uuid.UUID]uuid.UUID)
	for _, it := range items {
		if it.ItemType == payroll.ItemBank && it.BankID != nil {
			bankOf[it.EmployeeID] = *it.BankID
		}
	}

	byBank := make(map[uuid.UUID]*BankTotals)
	totalsFor := func(employeeID uuid.UUID) *BankTotals {
		bankID := bankOf[employeeID]
		t, ok := byBank[bankID]
		if !ok {
			name := bankNames[bankID]
			if name == "" {
				name = unassignedBank
			}
			t = &BankTotals{BankID: bankID, BankName: name, LoansByType: map[string]decimal.Decimal{}}
			byBank[bankID] = t
		}
		return t
	}

	for _, it := range items {
		t := totalsFor(it.EmployeeID)
		switch it.ItemType {
		case payroll.ItemBasicSalary:
			t.Basic = t.Basic.Add(it.Amount)
		case payroll.ItemEarning:
			t.Earnings = t.Earnings.Add(it.Amount)
		case payroll.ItemDeduction:
			t.Deductions = t.Deductions.Add(it.Amount)
		case payroll.ItemCreditUnion:
			t.CreditUnions = t.CreditUnions.Add(it.Amount)
		case payroll.ItemLoan:
			t.Loans = t.Loans.Add(it.Amount)
			t.LoansByType[it.Label] = t.LoansByType[it.Label].Add(it.Amount)
		case payroll.ItemEmployeeSSNIT:
			t.EmployeeSSNIT = t.EmployeeSSNIT.Add(it.Amount)
		case payroll.ItemEmployerSSNIT:
			t.EmployerSSNIT = t.EmployerSSNIT.Add(it.Amount)
		case payroll.ItemTax:
			t.Tax = t.Tax.Add(it.Amount)
		case payroll.ItemTaxRelief:
			t.TaxRelief = t.TaxRelief.Add(it.Amount)
		case payroll.ItemBank:
			t.Net = t.Net.Add(it.Amount)
			t.Employees++
		}
	}

	report := Report{Banks: make([]BankTotals, 0, len(byBank))}
	for _, t := range byBank {
		t.TotalDebit = t.Earnings.Add(t.Basic).Add(t.TaxRelief).Add(t.EmployerSSNIT)
		t.TotalCredit = t.Net.
			Add(t.Deductions).
			Add(t.CreditUnions).
			Add(t.Loans).
			Add(t.EmployeeSSNIT).
			Add(t.Tax).
			Add(t.EmployerSSNIT)
		t.Balanced = t.TotalDebit.Equal(t.TotalCredit)
		if t.Balanced {
			report.BalancedCount++
		}
		report.TotalNet = report.TotalNet.Add(t.Net)
		report.Banks = append(report.Banks, *t)
	}
	sort.Slice(report.Banks, func(i, j int) bool {
		if report.Banks[i].BankName != report.Banks[j].BankName {
			return report.Banks[i].BankName < report.Banks[j].BankName
		}
		return report.Banks[i].BankID.String() < report.Banks[j].BankID.String()
	})
	return report
}

// LoanTypes returns the loan labels of t in a stable order.
func (t BankTotals) LoanTypes() []string {
	labels := make([]string, 0, len(t.LoansByType))
	for label := range t.LoansByType {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
