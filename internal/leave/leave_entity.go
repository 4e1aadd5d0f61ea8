package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatePending    = "PENDING"
	StateAuthorized = "AUTHORIZED"
	StateRejected   = "REJECTED"
)

const (
	ImpactLow    = "LOW"
	ImpactMedium = "MEDIUM"
	ImpactHigh   = "HIGH"
)

// LeaveRequest carries both the request core and a frozen snapshot of the
// employee profile taken at submission. Later directory changes never alter
// a submitted request; only the winning decision call mutates it afterwards.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	// Employee snapshot, frozen at submission time.
	Age               int     `gorm:"type:int"`
	Gender            string  `gorm:"type:varchar(20)"`
	MaritalStatus     string  `gorm:"type:varchar(20)"`
	DependentsCount   int     `gorm:"type:int"`
	Department        string  `gorm:"type:varchar(60)"`
	Position          string  `gorm:"type:varchar(60)"`
	TenureYears       int     `gorm:"type:int"`
	Salary            float64 `gorm:"type:decimal(12,2)"`
	ContractType      string  `gorm:"type:varchar(30)"`
	Site              string  `gorm:"type:varchar(60)"`
	ActiveSanctions   bool    `gorm:"type:boolean;not null;default:false"`
	AbsenceCount      int     `gorm:"type:int;not null;default:0"`
	PriorYearDaysUsed int     `gorm:"type:int;not null;default:0"`

	ReasonText    string    `gorm:"type:text;not null"`
	DaysRequested int       `gorm:"type:int;not null"`
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	AreaImpact    string    `gorm:"type:varchar(10);not null;default:'LOW'"`

	// Classification result; always populated before the row is inserted.
	PermitType          string   `gorm:"type:varchar(30);not null"`
	ApprovalProbability float64  `gorm:"type:decimal(5,4);not null"`
	IsAnomalous         bool     `gorm:"type:boolean;not null;default:false"`
	ImpactScore         *float64 `gorm:"type:decimal(5,2)"`
	SuggestedDays       *int     `gorm:"type:int"`

	DecisionState   string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_state"`
	DaysAuthorized  int        `gorm:"type:int;not null;default:0"`
	DecisionComment *string    `gorm:"type:text"`
	DecidedBy       *uuid.UUID `gorm:"type:uuid"`
	DecidedAt       *time.Time
	SupportFileRef  *string `gorm:"type:varchar(120)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func validImpact(v string) bool {
	return v == ImpactLow || v == ImpactMedium || v == ImpactHigh
}
