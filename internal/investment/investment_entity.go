package investment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvestmentDeclaration carries the HR-declared TDS amount for one
// employee. The payroll engine consumes the value as declared and never
// derives it; proration, where it applies, happens downstream.
type InvestmentDeclaration struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index:idx_investments_company_employee,unique"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_investments_company_employee,unique"`
	TDSThisMonth string    `gorm:"type:varchar(20);not null;default:'0'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (InvestmentDeclaration) TableName() string {
	return "investment_declarations"
}
