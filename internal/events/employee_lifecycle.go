package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

// Lifecycle event types published by the HR directory.
const (
	EmployeeCreated       = "employee_created"
	EmployeeUpdated       = "employee_updated"
	EmployeeStatusChanged = "employee_status_changed"
	EmployeeGradeChanged  = "employee_grade_changed"
)

type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
