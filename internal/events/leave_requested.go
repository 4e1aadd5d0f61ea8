package events

import "time"

const LeaveRequestedTopic = "hr.leave.requested.v1"

type LeaveRequestedEvent struct {
	EventType           string    `json:"event_type"`
	RequestID           string    `json:"request_id"`
	EmployeeID          string    `json:"employee_id"`
	PermitType          string    `json:"permit_type"`
	DaysRequested       int       `json:"days_requested"`
	ApprovalProbability float64   `json:"approval_probability"`
	IsAnomalous         bool      `json:"is_anomalous"`
	OccurredAt          time.Time `json:"occurred_at"`
}
