package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hrms-payroll/internal/shared/apperror"
)

type fakeAttendanceRepo struct {
	rows map[string]*Attendance // companyID/employeeID/date
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{rows: map[string]*Attendance{}}
}

func rowKey(companyID, employeeID string, date time.Time) string {
	return companyID + "/" + employeeID + "/" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeAttendanceRepo) Create(_ context.Context, a *Attendance) error {
	f.rows[rowKey(a.CompanyID.String(), a.EmployeeID.String(), a.AttendanceDate)] = a
	return nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, a *Attendance) error {
	f.rows[rowKey(a.CompanyID.String(), a.EmployeeID.String(), a.AttendanceDate)] = a
	return nil
}

func (f *fakeAttendanceRepo) FindByEmployeeAndDate(_ context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	row, ok := f.rows[rowKey(companyID, employeeID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeAttendanceRepo) FindByEmployeeAndPeriod(_ context.Context, companyID, employeeID string, start, end time.Time) ([]Attendance, error) {
	var out []Attendance
	for _, row := range f.rows {
		if row.CompanyID.String() != companyID || row.EmployeeID.String() != employeeID {
			continue
		}
		if row.AttendanceDate.Before(start) || row.AttendanceDate.After(end) {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) FindAllByCompany(_ context.Context, companyID string) ([]Attendance, error) {
	var out []Attendance
	for _, row := range f.rows {
		if row.CompanyID.String() == companyID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) FindAllByCompanyAndEmployee(_ context.Context, companyID, employeeID string) ([]Attendance, error) {
	var out []Attendance
	for _, row := range f.rows {
		if row.CompanyID.String() == companyID && row.EmployeeID.String() == employeeID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type attendanceFixture struct {
	svc  Service
	repo *fakeAttendanceRepo
	mock sqlmock.Sqlmock

	companyID  string
	employeeID string
	now        time.Time
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeAttendanceRepo()
	fx := &attendanceFixture{
		svc:        NewService(db, repo),
		repo:       repo,
		mock:       mock,
		companyID:  uuid.NewString(),
		employeeID: uuid.NewString(),
		now:        time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC),
	}
	fx.svc.(*service).now = func() time.Time { return fx.now }
	return fx
}

func TestClockIn(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.svc.ClockIn(context.Background(), fx.companyID, fx.employeeID, ClockInRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2024-04-10", resp.AttendanceDate)
	assert.Equal(t, statusPresent, resp.Status)
	assert.Equal(t, "MANUAL", resp.Source)
	require.NotNil(t, resp.ClockIn)
	assert.Equal(t, fx.now.Format(time.RFC3339), *resp.ClockIn)
	assert.Nil(t, resp.ClockOut)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestClockIn_Twice(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	fx.mock.ExpectBegin()

	ctx := context.Background()
	_, err := fx.svc.ClockIn(ctx, fx.companyID, fx.employeeID, ClockInRequest{})
	require.NoError(t, err)

	_, err = fx.svc.ClockIn(ctx, fx.companyID, fx.employeeID, ClockInRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestClockOut_FullDay(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	ctx := context.Background()
	_, err := fx.svc.ClockIn(ctx, fx.companyID, fx.employeeID, ClockInRequest{})
	require.NoError(t, err)

	fx.now = fx.now.Add(9 * time.Hour)
	resp, err := fx.svc.ClockOut(ctx, fx.companyID, fx.employeeID, ClockOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, statusPresent, resp.Status)
	require.NotNil(t, resp.ClockOut)
	assert.Equal(t, fx.now.Format(time.RFC3339), *resp.ClockOut)
}

func TestClockOut_ShortDayBecomesHalfDay(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	ctx := context.Background()
	_, err := fx.svc.ClockIn(ctx, fx.companyID, fx.employeeID, ClockInRequest{})
	require.NoError(t, err)

	// 3 hours worked is under the 240 minute threshold.
	fx.now = fx.now.Add(3 * time.Hour)
	resp, err := fx.svc.ClockOut(ctx, fx.companyID, fx.employeeID, ClockOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, statusHalfDay, resp.Status)
}

func TestClockOut_WithoutClockIn(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.mock.ExpectBegin()

	_, err := fx.svc.ClockOut(context.Background(), fx.companyID, fx.employeeID, ClockOutRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestClockOut_Twice(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	fx.mock.ExpectBegin()

	ctx := context.Background()
	_, err := fx.svc.ClockIn(ctx, fx.companyID, fx.employeeID, ClockInRequest{})
	require.NoError(t, err)
	_, err = fx.svc.ClockOut(ctx, fx.companyID, fx.employeeID, ClockOutRequest{})
	require.NoError(t, err)

	_, err = fx.svc.ClockOut(ctx, fx.companyID, fx.employeeID, ClockOutRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestUpsertStatus(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()
	notes := "regularized after site visit"

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	resp, err := fx.svc.UpsertStatus(ctx, fx.companyID, UpsertStatusRequest{
		EmployeeID:     fx.employeeID,
		AttendanceDate: "2024-04-02",
		Status:         "Week Off",
		Notes:          &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "Week Off", resp.Status)
	assert.Equal(t, "HR_CORRECTION", resp.Source)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, notes, *resp.Notes)

	// Second call for the same date updates the existing row in place.
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	resp, err = fx.svc.UpsertStatus(ctx, fx.companyID, UpsertStatusRequest{
		EmployeeID:     fx.employeeID,
		AttendanceDate: "2024-04-02",
		Status:         "Half-day",
	})
	require.NoError(t, err)
	assert.Equal(t, "Half-day", resp.Status)
	assert.Len(t, fx.repo.rows, 1)
}

func TestUpsertStatus_InvalidDate(t *testing.T) {
	fx := newAttendanceFixture(t)

	_, err := fx.svc.UpsertStatus(context.Background(), fx.companyID, UpsertStatusRequest{
		EmployeeID:     fx.employeeID,
		AttendanceDate: "02/04/2024",
		Status:         "Present",
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestGetAll_Scoping(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()
	otherEmployee := uuid.NewString()

	for _, empID := range []string{fx.employeeID, otherEmployee} {
		row := &Attendance{
			ID:             uuid.New(),
			CompanyID:      uuid.MustParse(fx.companyID),
			EmployeeID:     uuid.MustParse(empID),
			AttendanceDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Status:         statusPresent,
			Source:         "MANUAL",
		}
		require.NoError(t, fx.repo.Create(ctx, row))
	}

	all, err := fx.svc.GetAll(ctx, fx.companyID, fx.employeeID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := fx.svc.GetAll(ctx, fx.companyID, fx.employeeID, false)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, fx.employeeID, own[0].EmployeeID)

	_, err = fx.svc.GetAll(ctx, fx.companyID, "not-a-uuid", false)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}
