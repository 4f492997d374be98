package events

import "time"

const LoanRepaidTopic = "hr.loan.repaid.v1"

type LoanRepaidEvent struct {
	EventType          string    `json:"event_type"`
	RequestID          string    `json:"request_id,omitempty"`
	LoanID             string    `json:"loan_id"`
	EmployeeID         string    `json:"employee_id"`
	AmountPaid         string    `json:"amount_paid"`
	OutstandingBalance string    `json:"outstanding_balance"`
	Status             string    `json:"status"`
	OccurredAt         time.Time `json:"occurred_at"`
}
