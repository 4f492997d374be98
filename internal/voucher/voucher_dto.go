package voucher

type LoanTypeTotal struct {
	LoanType string `json:"loan_type"`
	Amount   string `json:"amount"`
}

type BankSummaryResponse struct {
	BankID        string          `json:"bank_id"`
	BankName      string          `json:"bank_name"`
	Employees     int             `json:"employees"`
	Basic         string          `json:"basic"`
	Earnings      string          `json:"earnings"`
	Deductions    string          `json:"deductions"`
	CreditUnions  string          `json:"credit_unions"`
	Loans         string          `json:"loans"`
	LoansByType   []LoanTypeTotal `json:"loans_by_type"`
	EmployeeSSNIT string          `json:"employee_ssnit"`
	EmployerSSNIT string          `json:"employer_ssnit"`
	Tax           string          `json:"tax"`
	TaxRelief     string          `json:"tax_relief"`
	Net           string          `json:"net"`
	TotalDebit    string          `json:"total_debit"`
	TotalCredit   string          `json:"total_credit"`
	Balanced      bool            `json:"balanced"`
}

type ReportResponse struct {
	PayrollID     string                `json:"payroll_id"`
	Reference     string                `json:"reference"`
	Year          int                   `json:"year"`
	Month         int                   `json:"month"`
	Posted        bool                  `json:"posted"`
	BankCount     int                   `json:"bank_count"`
	BalancedCount int                   `json:"balanced_count"`
	TotalNet      string                `json:"total_net"`
	Banks         []BankSummaryResponse `json:"banks"`
}

func toBankResponse(t BankTotals) BankSummaryResponse {
	loans := make([]LoanTypeTotal, 0, len(t.LoansByType))
	for _, label := range t.LoanTypes() {
		loans = append(loans, LoanTypeTotal{LoanType: label, Amount: t.LoansByType[label].StringFixed(2)})
	}
	return BankSummaryResponse{
		BankID:        t.BankID.String(),
		BankName:      t.BankName,
		Employees:     t.Employees,
		Basic:         t.Basic.StringFixed(2),
		Earnings:      t.Earnings.StringFixed(2),
		Deductions:    t.Deductions.StringFixed(2),
		CreditUnions:  t.CreditUnions.StringFixed(2),
		Loans:         t.Loans.StringFixed(2),
		LoansByType:   loans,
		EmployeeSSNIT: t.EmployeeSSNIT.StringFixed(2),
		EmployerSSNIT: t.EmployerSSNIT.StringFixed(2),
		Tax:           t.Tax.StringFixed(2),
		TaxRelief:     t.TaxRelief.StringFixed(2),
		Net:           t.Net.StringFixed(2),
		TotalDebit:    t.TotalDebit.StringFixed(2),
		TotalCredit:   t.TotalCredit.StringFixed(2),
		Balanced:      t.Balanced,
	}
}
