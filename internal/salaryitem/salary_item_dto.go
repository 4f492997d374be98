package salaryitem

import (
	"go-payroll/internal/eligibility"

	"github.com/shopspring/decimal"
)

type SalaryItemRequest struct {
	Name           string                 `json:"name" binding:"required,max=120"`
	Effect         Effect                 `json:"effect" binding:"required,oneof=addition deduction"`
	RateType       RateType               `json:"rate_type" binding:"required,oneof=fixed factor variable"`
	RateAmount     decimal.Decimal        `json:"rate_amount"`
	RateDependency string                 `json:"rate_dependency"`
	ExpiresOn      string                 `json:"expires_on"`
	Filter         eligibility.FilterSpec `json:"filter"`
}

type SetVariableRequest struct {
	Multiplier decimal.Decimal `json:"multiplier"`
}

type SalaryItemResponse struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	Effect                string                 `json:"effect"`
	RateType              string                 `json:"rate_type"`
	RateAmount            string                 `json:"rate_amount"`
	RateDependency        string                 `json:"rate_dependency,omitempty"`
	ExpiresOn             *string                `json:"expires_on"`
	Filter                eligibility.FilterSpec `json:"filter"`
	EligibleEmployeeCount int                    `json:"eligible_employee_count"`
}

type StaffSalaryItemResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Amount     string  `json:"amount"`
	Variable   *string `json:"variable"`
}

// ResyncResult reports how an eligibility refresh changed the assignments.
type ResyncResult struct {
	SalaryItemID string `json:"salary_item_id"`
	Added        int    `json:"added"`
	Removed      int    `json:"removed"`
	Eligible     int    `json:"eligible"`
}

func toResponse(i SalaryItem) SalaryItemResponse {
	resp := SalaryItemResponse{
		ID:                    i.ID.String(),
		Name:                  i.Name,
		Effect:                string(i.Effect),
		RateType:              string(i.RateType),
		RateAmount:            i.RateAmount.StringFixed(2),
		RateDependency:        i.RateDependency,
		Filter:                i.Filter,
		EligibleEmployeeCount: i.EligibleEmployeeCount,
	}
	if i.ExpiresOn != nil {
		s := i.ExpiresOn.Format("2006-01-02")
		resp.ExpiresOn = &s
	}
	return resp
}

func toStaffResponse(r StaffSalaryItem) StaffSalaryItemResponse {
	resp := StaffSalaryItemResponse{
		ID:         r.ID.String(),
		EmployeeID: r.EmployeeID.String(),
		Amount:     r.Amount.StringFixed(2),
	}
	if r.Variable.Valid {
		s := r.Variable.Decimal.StringFixed(2)
		resp.Variable = &s
	}
	return resp
}
