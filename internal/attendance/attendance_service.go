package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hrms-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Statuses written by the clock endpoints. HR corrections may write any
// free-text status on top of these.
const (
	statusPresent = "Present"
	statusHalfDay = "Half-day"
)

// Clocking out before this many worked minutes downgrades the day to a
// half day.
const halfDayThresholdMinutes = 240

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	UpsertStatus(ctx context.Context, companyID string, req UpsertStatusRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
	now  func() time.Time
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if existing != nil {
		return AttendanceResponse{}, apperror.New(apperror.CodeConflict, "already clocked in for today", 409)
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      uuid.MustParse(companyID),
		EmployeeID:     uuid.MustParse(employeeID),
		AttendanceDate: today,
		ClockIn:        &now,
		Status:         statusPresent,
		Source:         source,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, apperror.New(apperror.CodeNotFound, "clock in not found for today", 404)
		}
		return AttendanceResponse{}, err
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, apperror.New(apperror.CodeConflict, "already clocked out for today", 409)
	}

	row.ClockOut = &now
	if row.ClockIn != nil && now.Sub(*row.ClockIn) < halfDayThresholdMinutes*time.Minute {
		row.Status = statusHalfDay
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

// UpsertStatus writes an HR correction for any date, creating the row
// when the day was never logged.
func (s *service) UpsertStatus(ctx context.Context, companyID string, req UpsertStatusRequest) (AttendanceResponse, error) {
	date, err := time.Parse("2006-01-02", req.AttendanceDate)
	if err != nil {
		return AttendanceResponse{}, apperror.New(apperror.CodeInvalidInput, "invalid date format, expected YYYY-MM-DD", 400)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	if row == nil {
		row = &Attendance{
			ID:             uuid.New(),
			CompanyID:      uuid.MustParse(companyID),
			EmployeeID:     uuid.MustParse(req.EmployeeID),
			AttendanceDate: date,
			Status:         req.Status,
			Source:         "HR_CORRECTION",
			Notes:          req.Notes,
		}
		if err := qtx.Create(ctx, row); err != nil {
			return AttendanceResponse{}, err
		}
	} else {
		row.Status = req.Status
		row.Source = "HR_CORRECTION"
		if req.Notes != nil {
			row.Notes = req.Notes
		}
		if err := qtx.Update(ctx, row); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, apperror.New(apperror.CodeInvalidInput, "invalid actor id", 400)
		}
		rows, err = s.repo.FindAllByCompanyAndEmployee(ctx, companyID, actorID)
	}
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		CompanyID:      a.CompanyID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.ClockIn != nil {
		v := a.ClockIn.Format(time.RFC3339)
		resp.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	return resp
}
