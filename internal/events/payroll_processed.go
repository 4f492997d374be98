package events

import "time"

const PayrollProcessedTopic = "hr.payroll.processed.v1"

type PayrollProcessedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	PayrollID     string    `json:"payroll_id"`
	Reference     string    `json:"reference"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	EmployeeCount int       `json:"employee_count"`
	ErrorCount    int       `json:"error_count"`
	ProcessedBy   string    `json:"processed_by,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
