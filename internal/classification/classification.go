package classification

import "time"

// Permit labels form a closed set. Anything a classifier returns outside the
// set is normalized to PermitPersonal before it reaches a request record.
const (
	PermitMedical         = "MEDICAL"
	PermitVacation        = "VACATION"
	PermitPersonal        = "PERSONAL"
	PermitFamilyEmergency = "FAMILY_EMERGENCY"
	PermitStudy           = "STUDY"
	PermitLegal           = "LEGAL"
	PermitLabor           = "LABOR"
)

var PermitLabels = []string{
	PermitMedical,
	PermitVacation,
	PermitPersonal,
	PermitFamilyEmergency,
	PermitStudy,
	PermitLegal,
	PermitLabor,
}

func IsKnownPermit(label string) bool {
	for _, l := range PermitLabels {
		if l == label {
			return true
		}
	}
	return false
}

// Classification is the single authoritative result attached to a request
// before it becomes visible. ApprovalProbability is always set; ImpactScore
// and SuggestedDays stay nil when only the fallback heuristic ran.
type Classification struct {
	PermitType          string
	ApprovalProbability float64
	IsAnomalous         bool
	ImpactScore         *float64
	SuggestedDays       *int
}

type ClassifyInput struct {
	EmployeeID    string
	DaysRequested int
	ReasonText    string
	StartDate     time.Time
	EndDate       time.Time
}
