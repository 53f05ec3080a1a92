package investment

import (
	"context"
	"database/sql"

	"hrms-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=investment_repo.go -destination=mock/investment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, decl *InvestmentDeclaration) error
	FindByEmployee(ctx context.Context, companyID, employeeID string) (*InvestmentDeclaration, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]InvestmentDeclaration, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Upsert keeps one declaration row per company+employee; a new
// declaration overwrites the previous amount.
func (r *repository) Upsert(ctx context.Context, decl *InvestmentDeclaration) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tds_this_month", "updated_at"}),
		}).
		Create(decl).Error
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) (*InvestmentDeclaration, error) {
	var decl InvestmentDeclaration
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		First(&decl).Error
	if err != nil {
		return nil, err
	}
	return &decl, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]InvestmentDeclaration, error) {
	var decls []InvestmentDeclaration
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Find(&decls).Error
	return decls, err
}
