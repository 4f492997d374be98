package creditunion

import (
	"time"

	"go-payroll/internal/eligibility"

	"github.com/shopspring/decimal"
)

type CreditUnionRequest struct {
	Name          string                 `json:"name" binding:"required,max=120"`
	DefaultAmount decimal.Decimal        `json:"default_amount"`
	StartDate     string                 `json:"start_date" binding:"required"`
	EndDate       string                 `json:"end_date"`
	Filter        eligibility.FilterSpec `json:"filter"`
}

type MemberRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	StartDate string          `json:"start_date" binding:"required"`
	EndDate   string          `json:"end_date"`
}

type CreditUnionResponse struct {
	ID                    string                 `json:"id"`
	Name                  string                 `json:"name"`
	DefaultAmount         string                 `json:"default_amount"`
	StartDate             string                 `json:"start_date"`
	EndDate               *string                `json:"end_date"`
	Filter                eligibility.FilterSpec `json:"filter"`
	EligibleEmployeeCount int                    `json:"eligible_employee_count"`
}

type MemberResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Amount     string  `json:"amount"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

type ResyncResult struct {
	CreditUnionID string `json:"credit_union_id"`
	Added         int    `json:"added"`
	Removed       int    `json:"removed"`
	Eligible      int    `json:"eligible"`
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toResponse(cu CreditUnion) CreditUnionResponse {
	return CreditUnionResponse{
		ID:                    cu.ID.String(),
		Name:                  cu.Name,
		DefaultAmount:         cu.DefaultAmount.StringFixed(2),
		StartDate:             cu.StartDate.Format("2006-01-02"),
		EndDate:               optionalDate(cu.EndDate),
		Filter:                cu.Filter,
		EligibleEmployeeCount: cu.EligibleEmployeeCount,
	}
}

func toMemberResponse(m StaffCreditUnion) MemberResponse {
	return MemberResponse{
		ID:         m.ID.String(),
		EmployeeID: m.EmployeeID.String(),
		Amount:     m.Amount.StringFixed(2),
		StartDate:  m.StartDate.Format("2006-01-02"),
		EndDate:    optionalDate(m.EndDate),
	}
}
