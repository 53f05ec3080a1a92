package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the payroll master record. Monetary configuration is
// stored as text columns because the upstream HR import feeds free-form
// values; parsing (with default-zero) happens at computation time.
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company_code,unique"`
	EmpCode   string    `gorm:"type:varchar(20);not null;index:idx_employees_company_code,unique"`
	FullName  string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex"`
	Gender    string    `gorm:"type:varchar(10)"`
	PayGroup  string    `gorm:"type:varchar(30)"`

	BasicMonthly          string `gorm:"type:varchar(20)"`
	HRAMonthly            string `gorm:"type:varchar(20)"`
	OtherAllowanceMonthly string `gorm:"type:varchar(20)"`
	PFMonthlyContribution string `gorm:"type:varchar(20)"`
	ESICMonthly           string `gorm:"type:varchar(20)"`

	IsActive  bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
