package payroll

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayrollRun is one persisted employee-month computation plus its
// payment workflow state. The unique index makes process-attendance
// re-runs upserts instead of duplicates.
type PayrollRun struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_runs_company_period,unique;index:idx_runs_company_status"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index:idx_runs_company_period,unique"`
	Employee   *PayrollEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
	EmpCode    string           `gorm:"type:varchar(20);not null;index"`

	PeriodYear  int `gorm:"not null;index:idx_runs_company_period,unique"`
	PeriodMonth int `gorm:"not null;index:idx_runs_company_period,unique"`
	TotalDays   int `gorm:"not null"`

	// Day counts at 0.5 granularity.
	PresentDays   float64 `gorm:"type:numeric(4,1);not null;default:0"`
	AbsentDays    float64 `gorm:"type:numeric(4,1);not null;default:0"`
	HalfDays      float64 `gorm:"type:numeric(4,1);not null;default:0"`
	PaidLeaveDays float64 `gorm:"type:numeric(4,1);not null;default:0"`
	SickLeaveDays float64 `gorm:"type:numeric(4,1);not null;default:0"`
	PayDays       float64 `gorm:"type:numeric(4,1);not null;default:0"`
	LOPDays       float64 `gorm:"type:numeric(4,1);not null;default:0"`

	BasicEarned  float64 `gorm:"type:numeric(14,2);not null;default:0"`
	HRAEarned    float64 `gorm:"type:numeric(14,2);not null;default:0"`
	OtherEarned  float64 `gorm:"type:numeric(14,2);not null;default:0"`
	TotalEarning float64 `gorm:"type:numeric(14,2);not null;default:0"`

	PFContribution  float64 `gorm:"type:numeric(14,2);not null;default:0"`
	ESIEarned       float64 `gorm:"type:numeric(14,2);not null;default:0"`
	ProfessionalTax float64 `gorm:"type:numeric(14,2);not null;default:0"`
	IncomeTax       float64 `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeduction  float64 `gorm:"type:numeric(14,2);not null;default:0"`
	NetPay          float64 `gorm:"type:numeric(14,2);not null;default:0"`

	Status     string     `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_runs_company_status"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt          time.Time
	UpdatedAt          time.Time
	ApprovedAt         *time.Time     `gorm:"index"`
	PaidAt             *time.Time     `gorm:"index"`
	PayslipGeneratedAt *time.Time     `gorm:"index"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// PayrollEmployee is a narrow join view used when a run needs the
// employee name, as on payslips.
type PayrollEmployee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (PayrollEmployee) TableName() string {
	return "employees"
}
