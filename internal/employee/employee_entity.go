package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the directory record the pipeline reads a snapshot from. The
// profile columns feed the ML predictor and are frozen onto each request at
// submission time.
type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName string    `gorm:"type:varchar(120);not null"`
	Email    string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	Password string    `gorm:"type:varchar(120);not null"`
	Role     string    `gorm:"type:varchar(20);not null;default:'EMPLEADO'"`

	Age             int       `gorm:"type:int"`
	Gender          string    `gorm:"type:varchar(20)"`
	MaritalStatus   string    `gorm:"type:varchar(20)"`
	DependentsCount int       `gorm:"type:int"`
	Department      string    `gorm:"type:varchar(60)"`
	Position        string    `gorm:"type:varchar(60)"`
	HireDate        time.Time `gorm:"type:date"`
	Salary          float64   `gorm:"type:decimal(12,2)"`
	ContractType    string    `gorm:"type:varchar(30)"`
	Site            string    `gorm:"type:varchar(60)"`
	ActiveSanctions bool      `gorm:"type:boolean;not null;default:false"`
	AbsenceCount    int       `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TenureYears derives full years of service at the given instant.
func (e *Employee) TenureYears(now time.Time) int {
	if e.HireDate.IsZero() || now.Before(e.HireDate) {
		return 0
	}
	const yearHours = 365.25 * 24
	return int(now.Sub(e.HireDate).Hours() / yearHours)
}
