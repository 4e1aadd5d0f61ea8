package leave

import "time"

type CreateLeaveRequest struct {
	ReasonText        string `json:"reason_text" form:"reason_text" binding:"required,min=20"`
	DaysRequested     int    `json:"days_requested" form:"days_requested" binding:"required,min=1"`
	StartDate         string `json:"start_date" form:"start_date" binding:"required"`
	EndDate           string `json:"end_date" form:"end_date" binding:"required"`
	AreaImpact        string `json:"area_impact" form:"area_impact" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	PriorYearDaysUsed int    `json:"prior_year_days_used" form:"prior_year_days_used" binding:"omitempty,min=0"`
}

type ApproveLeaveRequest struct {
	DaysAuthorized int    `json:"days_authorized" binding:"required,min=1"`
	Comment        string `json:"comment"`
}

type RejectLeaveRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type ListFilter struct {
	State      string
	PermitType string
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

type ClassificationSummary struct {
	PermitType          string   `json:"permit_type"`
	ApprovalProbability float64  `json:"approval_probability"`
	IsAnomalous         bool     `json:"is_anomalous"`
	ImpactScore         *float64 `json:"impact_score,omitempty"`
	SuggestedDays       *int     `json:"suggested_days,omitempty"`
}

type LeaveResponse struct {
	ID                  string   `json:"id"`
	EmployeeID          string   `json:"employee_id"`
	Department          string   `json:"department"`
	Position            string   `json:"position"`
	TenureYears         int      `json:"tenure_years"`
	ReasonText          string   `json:"reason_text"`
	DaysRequested       int      `json:"days_requested"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	AreaImpact          string   `json:"area_impact"`
	PermitType          string   `json:"permit_type"`
	ApprovalProbability float64  `json:"approval_probability"`
	IsAnomalous         bool     `json:"is_anomalous"`
	ImpactScore         *float64 `json:"impact_score,omitempty"`
	SuggestedDays       *int     `json:"suggested_days,omitempty"`
	DecisionState       string   `json:"decision_state"`
	DaysAuthorized      int      `json:"days_authorized"`
	DecisionComment     *string  `json:"decision_comment,omitempty"`
	DecidedBy           *string  `json:"decided_by,omitempty"`
	DecidedAt           *string  `json:"decided_at,omitempty"`
	SupportFileRef      *string  `json:"support_file_ref,omitempty"`
	CreatedAt           string   `json:"created_at"`
}

type CreateLeaveResponse struct {
	Request        LeaveResponse         `json:"request"`
	Classification ClassificationSummary `json:"classification"`
}
