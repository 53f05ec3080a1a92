package payroll

import (
	"context"
	"database/sql"

	"hrms-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RunFilter narrows list queries. Zero values mean "no filter".
type RunFilter struct {
	Year   int
	Month  int
	Status string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert writes one run per company+employee+period; a re-run
	// overwrites the computed columns of the existing row but never
	// touches workflow columns.
	Upsert(ctx context.Context, run *PayrollRun) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error)
	FindAllByCompany(ctx context.Context, companyID string, filter RunFilter) ([]PayrollRun, error)
	FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, year, month int) (*PayrollRun, error)
	Update(ctx context.Context, run *PayrollRun) error
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

func (r *repository) Upsert(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "company_id"}, {Name: "employee_id"},
				{Name: "period_year"}, {Name: "period_month"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"emp_code", "total_days",
				"present_days", "absent_days", "half_days",
				"paid_leave_days", "sick_leave_days", "pay_days", "lop_days",
				"basic_earned", "hra_earned", "other_earned", "total_earning",
				"pf_contribution", "esi_earned", "professional_tax",
				"income_tax", "total_deduction", "net_pay",
				"updated_at",
			}),
		}).
		Create(run).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee").
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter RunFilter) ([]PayrollRun, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID))
	if filter.Year != 0 {
		db = db.Where("period_year = ?", filter.Year)
	}
	if filter.Month != 0 {
		db = db.Where("period_month = ?", filter.Month)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var runs []PayrollRun
	err := db.
		Order("period_year DESC, period_month DESC, emp_code ASC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, year, month int) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND period_year = ? AND period_month = ?", employeeID, year, month).
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) Update(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}
