package voucher

import (
	"fmt"

	"go-payroll/internal/payroll"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Voucher"
	loanSheet    = "Loans"
)

var summaryHeadings = []string{
	"Bank", "Employees", "Basic", "Earnings", "Deductions", "Credit unions", "Loans",
	"SSNIT (employee)", "SSNIT (employer)", "Tax", "Tax relief", "Net payable",
	"Total debit", "Total credit", "Balanced",
}

func exportFilename(p *payroll.Payroll) string {
	return fmt.Sprintf("voucher-%s-%04d-%02d.xlsx", p.Reference, p.Year, p.Month)
}

// renderWorkbook writes one row per bank plus a loan-type breakdown sheet.
func renderWorkbook(p *payroll.Payroll, report Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(loanSheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, summarySheet, 1, []any{fmt.Sprintf("Payroll %s (%04d-%02d)", p.Reference, p.Year, p.Month)}); err != nil {
		return nil, err
	}
	headings := make([]any, len(summaryHeadings))
	for i, h := range summaryHeadings {
		headings[i] = h
	}
	if err := writeRow(f, summarySheet, 2, headings); err != nil {
		return nil, err
	}

	row := 3
	for _, b := range report.Banks {
		values := []any{
			b.BankName, b.Employees,
			money(b.Basic), money(b.Earnings), money(b.Deductions), money(b.CreditUnions), money(b.Loans),
			money(b.EmployeeSSNIT), money(b.EmployerSSNIT), money(b.Tax), money(b.TaxRelief), money(b.Net),
			money(b.TotalDebit), money(b.TotalCredit), b.Balanced,
		}
		if err := writeRow(f, summarySheet, row, values); err != nil {
			return nil, err
		}
		row++
	}
	footer := []any{"Total", "", "", "", "", "", "", "", "", "", "", money(report.TotalNet), "", "",
		fmt.Sprintf("%d/%d", report.BalancedCount, len(report.Banks))}
	if err := writeRow(f, summarySheet, row, footer); err != nil {
		return nil, err
	}

	if err := writeRow(f, loanSheet, 1, []any{"Bank", "Loan type", "Amount"}); err != nil {
		return nil, err
	}
	row = 2
	for _, b := range report.Banks {
		for _, label := range b.LoanTypes() {
			if err := writeRow(f, loanSheet, row, []any{b.BankName, label, money(b.LoansByType[label])}); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func money(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
