package holiday

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday marks one calendar date company-wide non-working. For pay-day
// counting a holiday overrides both the missing-record default and any
// half-day marking on the same date.
type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_holidays_company_date,unique"`
	Name      string    `gorm:"type:varchar(120);not null"`
	EventDate time.Time `gorm:"type:date;not null;index:idx_holidays_company_date,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Holiday) TableName() string {
	return "holidays"
}
