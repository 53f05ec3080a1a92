package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company's rows. Every table this
// service reads carries a company_id column; repositories apply the
// scope on all cross-employee queries so payroll data never crosses
// tenants.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
