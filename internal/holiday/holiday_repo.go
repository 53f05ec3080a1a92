package holiday

import (
	"context"
	"database/sql"
	"time"

	"hrms-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *Holiday) error
	FindInRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error)
	Delete(ctx context.Context, companyID, id string) error
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

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// FindInRange is the payroll engine's holiday feed for one month.
func (r *repository) FindInRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("event_date BETWEEN ? AND ?", start, end).
		Order("event_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Holiday, error) {
	var rows []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("event_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Holiday{}, "id = ?", id).Error
}
