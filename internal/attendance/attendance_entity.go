package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is one logged day for one employee. The unique index
// guarantees at most one row per employee per date; the payroll
// classifier depends on that.
type Attendance struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index:idx_attendance_employee_date,unique"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;index:idx_attendance_employee_date,unique"`
	ClockIn        *time.Time     `gorm:"column:clock_in;type:timestamptz"`
	ClockOut       *time.Time     `gorm:"column:clock_out;type:timestamptz"`
	Status         string         `gorm:"column:status;type:varchar(40);not null;default:'Present'"`
	Source         string         `gorm:"column:source;type:varchar(30);not null;default:'MANUAL'"`
	Notes          *string        `gorm:"column:notes;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
