package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanRequest struct {
	EmployeeID     string          `json:"employee_id" binding:"required,uuid"`
	LoanTypeID     string          `json:"loan_type_id" binding:"required,uuid"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months" binding:"required,min=1,max=600"`
	Purpose        string          `json:"purpose" binding:"max=255"`
}

type ActivateRequest struct {
	ActiveOn string `json:"active_on"`
}

type RepaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	PaidOn    string          `json:"paid_on"`
	Reference string          `json:"reference" binding:"max=64"`
}

type LoanResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	LoanTypeID           string  `json:"loan_type_id"`
	LoanType             string  `json:"loan_type,omitempty"`
	Principal            string  `json:"principal"`
	InterestRate         string  `json:"interest_rate"`
	DurationMonths       int     `json:"duration_months"`
	MonthlyInstallment   string  `json:"monthly_installment"`
	TotalRepayableAmount string  `json:"total_repayable_amount"`
	OutstandingBalance   string  `json:"outstanding_balance"`
	Status               string  `json:"status"`
	ActiveOn             *string `json:"active_on"`
	DeductionEndDate     *string `json:"deduction_end_date"`
	Purpose              string  `json:"purpose,omitempty"`
}

type RepaymentResponse struct {
	ID         string `json:"id"`
	LoanID     string `json:"loan_id"`
	AmountPaid string `json:"amount_paid"`
	PaidOn     string `json:"paid_on"`
	Reference  string `json:"reference,omitempty"`
}

type LoanTypeResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SalaryAdvance bool   `json:"salary_advance"`
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func toResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:                   l.ID.String(),
		EmployeeID:           l.EmployeeID.String(),
		LoanTypeID:           l.LoanTypeID.String(),
		Principal:            l.Principal.StringFixed(2),
		InterestRate:         l.InterestRate.StringFixed(2),
		DurationMonths:       l.DurationMonths,
		MonthlyInstallment:   l.MonthlyInstallment.StringFixed(2),
		TotalRepayableAmount: l.TotalRepayableAmount.StringFixed(2),
		OutstandingBalance:   l.OutstandingBalance.StringFixed(2),
		Status:               string(l.Status),
		Purpose:              l.Purpose,
	}
	if l.LoanType != nil {
		resp.LoanType = l.LoanType.Name
	}
	if l.ActiveOn != nil {
		s := formatDate(*l.ActiveOn)
		resp.ActiveOn = &s
	}
	if l.DeductionEndDate != nil {
		s := formatDate(*l.DeductionEndDate)
		resp.DeductionEndDate = &s
	}
	return resp
}

func toRepaymentResponse(r LoanRepayment) RepaymentResponse {
	return RepaymentResponse{
		ID:         r.ID.String(),
		LoanID:     r.LoanID.String(),
		AmountPaid: r.AmountPaid.StringFixed(2),
		PaidOn:     formatDate(r.PaidOn),
		Reference:  r.Reference,
	}
}
