package employee

type EmployeeResponse struct {
	ID             string `json:"id"`
	StaffNumber    string `json:"staff_number"`
	FullName       string `json:"full_name"`
	Status         string `json:"status"`
	EmploymentType string `json:"employment_type"`
	SalaryGrade    string `json:"salary_grade,omitempty"`
	Step           string `json:"step,omitempty"`
	BasicSalary    string `json:"basic_salary,omitempty"`
	Bank           string `json:"bank,omitempty"`
	TaxRelief      string `json:"tax_relief,omitempty"`
}

func toResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		StaffNumber:    e.StaffNumber,
		FullName:       e.FullName,
		Status:         string(e.Status),
		EmploymentType: string(e.EmploymentType),
	}
	if e.SalaryGrade != nil {
		resp.SalaryGrade = e.SalaryGrade.Grade
		resp.BasicSalary = e.SalaryGrade.Amount.StringFixed(2)
		if e.SalaryGrade.Step != nil {
			resp.Step = e.SalaryGrade.Step.Name
		}
	}
	if e.Bank != nil {
		resp.Bank = e.Bank.Name
	}
	if e.TaxRelief.Valid {
		resp.TaxRelief = e.TaxRelief.Decimal.StringFixed(2)
	}
	return resp
}
