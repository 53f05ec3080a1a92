package holiday

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hrms-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrHolidayExists reports a second holiday on the same company date.
// The unique index on (company_id, event_date) is what actually
// enforces it; this is the coded form of that violation.
var ErrHolidayExists = apperror.New(
	apperror.CodeConflict,
	"a holiday already exists on this date",
	409,
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return HolidayResponse{}, apperror.New(apperror.CodeInvalidInput, "invalid company id", 400)
	}

	date, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return HolidayResponse{}, apperror.New(apperror.CodeInvalidInput, "invalid date format, expected YYYY-MM-DD", 400)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	h := &Holiday{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		EventDate: date,
	}
	if err := s.repo.WithTx(tx).Create(ctx, h); err != nil {
		return HolidayResponse{}, mapCreateError(err)
	}
	if err := tx.Commit(); err != nil {
		return HolidayResponse{}, mapCreateError(err)
	}
	return mapToResponse(*h), nil
}

func mapCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrHolidayExists
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrHolidayExists
	}
	return err
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]HolidayResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(rows))
	for i, h := range rows {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	return s.repo.Delete(ctx, companyID, id)
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID.String(),
		CompanyID: h.CompanyID.String(),
		Name:      h.Name,
		EventDate: h.EventDate.Format("2006-01-02"),
	}
}
