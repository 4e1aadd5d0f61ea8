package events

import "time"

const LeaveDecidedTopic = "hr.leave.decided.v1"

type LeaveDecidedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"`
	EmployeeID     string    `json:"employee_id"`
	NewState       string    `json:"new_state"`
	DaysAuthorized int       `json:"days_authorized"`
	Comment        string    `json:"comment"`
	DecidedBy      string    `json:"decided_by"`
	DecidedAt      time.Time `json:"decided_at"`
	OccurredAt     time.Time `json:"occurred_at"`
}
