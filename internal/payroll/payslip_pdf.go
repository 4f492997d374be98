package payroll

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var summaryOrder = []struct {
	key   ItemType
	label string
}{
	{ItemBasicSalary, "Basic salary"},
	{ItemEarning, "Allowances"},
	{ItemGrossSalary, "Gross salary"},
	{ItemEmployeeSSNIT, "SSNIT (employee)"},
	{ItemTaxRelief, "Tax relief"},
	{ItemTaxability, "Taxable income"},
	{ItemTax, "Income tax"},
	{ItemDeduction, "Other deductions"},
	{ItemNetSalary, "Net salary"},
	{ItemEmployerSSNIT, "SSNIT (employer)"},
}

// RenderPayslipPDF lays out one payslip on a single A4 page.
func RenderPayslipPDF(slip PayslipResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	period := time.Date(slip.Year, time.Month(slip.Month), 1, 0, 0, 0, 0, time.UTC)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Reference: %s", slip.Reference))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", slip.EmployeeID))
	pdf.Ln(6)
	if grade := slip.Summary[string(ItemSalaryGrade)]; grade != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Grade: %s  Step: %s", grade, slip.Summary[string(ItemStep)]))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section(pdf, "Earnings", slip.Earnings)
	section(pdf, "Deductions", slip.Deductions)
	section(pdf, "Credit unions", slip.CreditUnions)
	section(pdf, "Loans", slip.Loans)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range summaryOrder {
		amount, ok := slip.Summary[string(row.key)]
		if !ok {
			continue
		}
		line(pdf, row.label, amount)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string, lines []PayslipLine) {
	if len(lines) == 0 {
		return
	}
	sorted := append([]PayslipLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Label < sorted[j].Label })

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range sorted {
		line(pdf, l.Label, l.Amount)
	}
	pdf.Ln(4)
}

func line(pdf *gofpdf.Fpdf, label, amount string) {
	pdf.CellFormat(120, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, amount, "", 1, "R", false, 0, "")
}
