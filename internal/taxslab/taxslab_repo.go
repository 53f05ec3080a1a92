package taxslab

import (
	"context"
	"database/sql"

	"hrms-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=taxslab_repo.go -destination=mock/taxslab_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, slab *TaxSlab) error
	FindActiveByCompany(ctx context.Context, companyID string) (*TaxSlab, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]TaxSlab, error)
	DeactivateAll(ctx context.Context, companyID string) error
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

func (r *repository) Create(ctx context.Context, slab *TaxSlab) error {
	return r.db.WithContext(ctx).Create(slab).Error
}

// FindActiveByCompany loads the single active configuration with its
// bands preloaded in index order.
func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) (*TaxSlab, error) {
	var slab TaxSlab
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Preload("Bands", func(db *gorm.DB) *gorm.DB {
			return db.Order("band_index ASC")
		}).
		First(&slab).Error
	if err != nil {
		return nil, err
	}
	return &slab, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]TaxSlab, error) {
	var slabs []TaxSlab
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Bands", func(db *gorm.DB) *gorm.DB {
			return db.Order("band_index ASC")
		}).
		Order("created_at DESC").
		Find(&slabs).Error
	return slabs, err
}

// DeactivateAll clears the active flag for a company so a new upsert
// can become the single active configuration.
func (r *repository) DeactivateAll(ctx context.Context, companyID string) error {
	return r.db.WithContext(ctx).
		Model(&TaxSlab{}).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}
