package taxslab

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	taxslaberrors "hrms-payroll/internal/taxslab/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	activeSlabKeyPrefix = "taxslab:active:"
	activeSlabTTL       = 30 * time.Minute
	maxBands            = 5
)

func activeSlabKey(companyID string) string {
	return activeSlabKeyPrefix + companyID
}

// Band is the engine-facing view of one configured band, stripped of
// persistence detail. Slices of Band keep configuration index order.
type Band struct {
	Gender   string      `json:"gender"`
	MinLimit float64     `json:"min_limit"`
	MaxLimit float64     `json:"max_limit"`
	Rates    [12]float64 `json:"rates"`
}

//go:generate mockgen -source=taxslab_service.go -destination=mock/taxslab_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, companyID string, req UpsertTaxSlabRequest) (TaxSlabResponse, error)
	GetActive(ctx context.Context, companyID string) (TaxSlabResponse, error)
	// ActiveBands is the payroll feed. A company with no active
	// configuration gets an empty slice, not an error; the engine
	// treats no bands as tax 0.
	ActiveBands(ctx context.Context, companyID string) ([]Band, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("taxslab.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("taxslab.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, logger: l}
}

// Upsert replaces the company's active configuration: previous active
// slabs are deactivated and the new one is created active, all in one
// transaction.
func (s *service) Upsert(ctx context.Context, companyID string, req UpsertTaxSlabRequest) (TaxSlabResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TaxSlabResponse{}, taxslaberrors.ErrInvalidCompanyID
	}
	if len(req.Bands) > maxBands {
		return TaxSlabResponse{}, taxslaberrors.ErrTooManyBands
	}

	slab := &TaxSlab{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		State:     req.State,
		IsActive:  true,
	}
	for i, in := range req.Bands {
		if in.MinLimit > in.MaxLimit {
			return TaxSlabResponse{}, taxslaberrors.ErrInvalidBandRange
		}
		gender, ok := normalizeGender(in.Gender)
		if !ok {
			return TaxSlabResponse{}, taxslaberrors.ErrInvalidBandGender
		}
		band := TaxSlabBand{
			ID:        uuid.New(),
			TaxSlabID: slab.ID,
			BandIndex: i + 1,
			Gender:    gender,
			MinLimit:  in.MinLimit,
			MaxLimit:  in.MaxLimit,
		}
		band.setRates(in.Rates)
		slab.Bands = append(slab.Bands, band)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaxSlabResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeactivateAll(ctx, companyID); err != nil {
		return TaxSlabResponse{}, err
	}
	if err := qtx.Create(ctx, slab); err != nil {
		return TaxSlabResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TaxSlabResponse{}, err
	}

	s.invalidateActive(ctx, companyID)
	s.logger.Info("tax slab configuration replaced",
		zap.String("company_id", companyID),
		zap.String("slab_id", slab.ID.String()),
		zap.Int("bands", len(slab.Bands)),
	)
	return mapToResponse(*slab), nil
}

func (s *service) GetActive(ctx context.Context, companyID string) (TaxSlabResponse, error) {
	slab, err := s.repo.FindActiveByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaxSlabResponse{}, taxslaberrors.ErrSlabConfigNotFound
		}
		return TaxSlabResponse{}, err
	}
	return mapToResponse(*slab), nil
}

// ActiveBands serves the payroll engine from redis; misses are
// de-duplicated per company through singleflight so a month-end batch
// run does not stampede the database with identical slab reads.
func (s *service) ActiveBands(ctx context.Context, companyID string) ([]Band, error) {
	key := activeSlabKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var bands []Band
			if err := json.Unmarshal([]byte(cached), &bands); err == nil {
				return bands, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		slab, err := s.repo.FindActiveByCompany(ctx, companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []Band{}, nil
			}
			return nil, err
		}
		bands := make([]Band, len(slab.Bands))
		for i, b := range slab.Bands {
			bands[i] = Band{
				Gender:   b.Gender,
				MinLimit: b.MinLimit,
				MaxLimit: b.MaxLimit,
				Rates:    b.rates(),
			}
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(bands); err == nil {
				_ = s.rdb.Set(ctx, key, payload, activeSlabTTL).Err()
			}
		}
		return bands, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Band), nil
}

func (s *service) invalidateActive(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, activeSlabKey(companyID)).Err(); err != nil {
		s.logger.Warn("invalidate tax slab cache failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}
}

func normalizeGender(g string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "all":
		return "All", true
	case "male":
		return "Male", true
	case "female":
		return "Female", true
	default:
		return "", false
	}
}

func mapToResponse(s TaxSlab) TaxSlabResponse {
	resp := TaxSlabResponse{
		ID:       s.ID.String(),
		Name:     s.Name,
		State:    s.State,
		IsActive: s.IsActive,
	}
	for _, b := range s.Bands {
		resp.Bands = append(resp.Bands, BandResponse{
			BandIndex: b.BandIndex,
			Gender:    b.Gender,
			MinLimit:  b.MinLimit,
			MaxLimit:  b.MaxLimit,
			Rates:     b.rates(),
		})
	}
	return resp
}
