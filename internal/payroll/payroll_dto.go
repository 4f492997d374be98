package payroll

import (
	"time"

	"go-payroll/internal/eligibility"

	"github.com/shopspring/decimal"
)

const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

type PayrollRequest struct {
	Year        int                    `json:"year" binding:"required,min=2000,max=2100"`
	Month       int                    `json:"month" binding:"required,min=1,max=12"`
	PaymentRate decimal.Decimal        `json:"payment_rate" binding:"gte=0,lte=100"`
	ErrorMode   ErrorMode              `json:"error_mode" binding:"required,oneof=strict mute"`
	Filter      eligibility.FilterSpec `json:"filter"`
}

type ListRequest struct {
	Year     int    `form:"year"`
	Month    int    `form:"month" binding:"omitempty,min=1,max=12"`
	Status   string `form:"status" binding:"omitempty,oneof=draft processed"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ResolveErrorRequest struct {
	Resolved *bool `json:"resolved" binding:"required"`
}

// ProcessResult is the outcome of one run.
type ProcessResult struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	PayrollID     string   `json:"payroll_id,omitempty"`
	Reference     string   `json:"reference,omitempty"`
	EmployeeCount int      `json:"employee_count"`
	ErrorCount    int      `json:"error_count"`
	Errors        []string `json:"errors,omitempty"`
}

type PayrollResponse struct {
	ID            string                 `json:"id"`
	Reference     string                 `json:"reference,omitempty"`
	Year          int                    `json:"year"`
	Month         int                    `json:"month"`
	PaymentRate   string                 `json:"payment_rate"`
	ErrorMode     string                 `json:"error_mode"`
	Filter        eligibility.FilterSpec `json:"filter"`
	Status        string                 `json:"status"`
	Posted        bool                   `json:"posted"`
	EmployeeCount int                    `json:"employee_count"`
	ErrorCount    int                    `json:"error_count"`
	CreatedBy     string                 `json:"created_by,omitempty"`
	ProcessedBy   string                 `json:"processed_by,omitempty"`
	ProcessedAt   *string                `json:"processed_at"`
	PostedAt      *string                `json:"posted_at"`
}

type PayrollItemResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	ItemType      string  `json:"item_type"`
	Amount        string  `json:"amount"`
	Entry         string  `json:"entry"`
	Label         string  `json:"label,omitempty"`
	Effect        string  `json:"effect,omitempty"`
	DependencyID  *string `json:"dependency_id,omitempty"`
	BankID        *string `json:"bank_id,omitempty"`
	SalaryItemID  *string `json:"salary_item_id,omitempty"`
	LoanID        *string `json:"loan_id,omitempty"`
	CreditUnionID *string `json:"credit_union_id,omitempty"`
}

type PayslipLine struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// PayslipResponse is one employee's breakdown keyed by item type.
type PayslipResponse struct {
	PayrollID    string            `json:"payroll_id"`
	Reference    string            `json:"reference"`
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	EmployeeID   string            `json:"employee_id"`
	Summary      map[string]string `json:"summary"`
	Earnings     []PayslipLine     `json:"earnings"`
	Deductions   []PayslipLine     `json:"deductions"`
	CreditUnions []PayslipLine     `json:"credit_unions"`
	Loans        []PayslipLine     `json:"loans"`
}

type PayrollErrorResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Category   string  `json:"category"`
	Detail     string  `json:"detail"`
	Resolved   bool    `json:"resolved"`
	ResolvedBy string  `json:"resolved_by,omitempty"`
	ResolvedAt *string `json:"resolved_at"`
}

func optionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:            p.ID.String(),
		Reference:     p.Reference,
		Year:          p.Year,
		Month:         p.Month,
		PaymentRate:   p.PaymentRate.StringFixed(2),
		ErrorMode:     string(p.ErrorMode),
		Filter:        p.Filter,
		Status:        p.Status,
		Posted:        p.Posted,
		EmployeeCount: p.EmployeeCount,
		ErrorCount:    p.ErrorCount,
		CreatedBy:     p.CreatedBy,
		ProcessedBy:   p.ProcessedBy,
		ProcessedAt:   optionalTime(p.ProcessedAt),
		PostedAt:      optionalTime(p.PostedAt),
	}
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p)
	}
	return resp
}

func optionalID(id interface{ String() string }, ok bool) *string {
	if !ok {
		return nil
	}
	v := id.String()
	return &v
}

func mapItemResponse(it PayrollItem) PayrollItemResponse {
	resp := PayrollItemResponse{
		ID:         it.ID.String(),
		EmployeeID: it.EmployeeID.String(),
		ItemType:   string(it.ItemType),
		Amount:     it.Amount.StringFixed(2),
		Entry:      string(it.Entry),
		Label:      it.Label,
		Effect:     it.Effect,
	}
	if it.DependencyID != nil {
		resp.DependencyID = optionalID(*it.DependencyID, true)
	}
	if it.BankID != nil {
		resp.BankID = optionalID(*it.BankID, true)
	}
	if it.SalaryItemID != nil {
		resp.SalaryItemID = optionalID(*it.SalaryItemID, true)
	}
	if it.LoanID != nil {
		resp.LoanID = optionalID(*it.LoanID, true)
	}
	if it.CreditUnionID != nil {
		resp.CreditUnionID = optionalID(*it.CreditUnionID, true)
	}
	return resp
}

func mapErrorResponse(e PayrollError) PayrollErrorResponse {
	return PayrollErrorResponse{
		ID:         e.ID.String(),
		EmployeeID: e.EmployeeID.String(),
		Category:   string(e.Category),
		Detail:     e.Detail,
		Resolved:   e.Resolved,
		ResolvedBy: e.ResolvedBy,
		ResolvedAt: optionalTime(e.ResolvedAt),
	}
}

// buildPayslip groups an employee's rows by item type.
func buildPayslip(p Payroll, employeeID string, items []PayrollItem) PayslipResponse {
	slip := PayslipResponse{
		PayrollID:    p.ID.String(),
		Reference:    p.Reference,
		Year:         p.Year,
		Month:        p.Month,
		EmployeeID:   employeeID,
		Summary:      map[string]string{},
		Earnings:     []PayslipLine{},
		Deductions:   []PayslipLine{},
		CreditUnions: []PayslipLine{},
		Loans:        []PayslipLine{},
	}
	for _, it := range items {
		line := PayslipLine{Label: it.Label, Amount: it.Amount.StringFixed(2)}
		switch it.ItemType {
		case ItemSalaryItem:
			if it.Effect == "deduction" {
				slip.Deductions = append(slip.Deductions, line)
			} else {
				slip.Earnings = append(slip.Earnings, line)
			}
		case ItemCreditUnion:
			slip.CreditUnions = append(slip.CreditUnions, line)
		case ItemLoan:
			slip.Loans = append(slip.Loans, line)
		case ItemSalaryGrade, ItemStep:
			slip.Summary[string(it.ItemType)] = it.Label
		default:
			slip.Summary[string(it.ItemType)] = line.Amount
		}
	}
	return slip
}
