package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Leave is one leave request over an inclusive date range. A request
// only counts for payroll once BOTH approvals are granted.
type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType string    `gorm:"type:varchar(40);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	HRApproval      string `gorm:"type:varchar(20);not null;default:'Pending'"`
	ManagerApproval string `gorm:"type:varchar(20);not null;default:'Pending'"`

	CreatedBy         uuid.UUID  `gorm:"type:uuid;not null"`
	HRApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ManagerApprovedBy *uuid.UUID `gorm:"type:uuid"`
	RejectionReason   *string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

func (Leave) TableName() string {
	return "leaves"
}
