package payroll

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hrms-payroll/internal/attendance"
	"hrms-payroll/internal/employee"
	"hrms-payroll/internal/holiday"
	"hrms-payroll/internal/investment"
	"hrms-payroll/internal/leave"
	payrollerrors "hrms-payroll/internal/payroll/errors"
	"hrms-payroll/internal/taxslab"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRunRepo struct {
	runs map[string]*PayrollRun // keyed by run ID
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[string]*PayrollRun{}}
}

func (f *fakeRunRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRunRepo) Upsert(ctx context.Context, run *PayrollRun) error {
	for _, existing := range f.runs {
		if existing.CompanyID == run.CompanyID &&
			existing.EmployeeID == run.EmployeeID &&
			existing.PeriodYear == run.PeriodYear &&
			existing.PeriodMonth == run.PeriodMonth {
			id, status := existing.ID, existing.Status
			*existing = *run
			existing.ID, existing.Status = id, status
			return nil
		}
	}
	stored := *run
	f.runs[run.ID.String()] = &stored
	return nil
}

func (f *fakeRunRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	run, ok := f.runs[id]
	if !ok || run.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	out := *run
	return &out, nil
}

func (f *fakeRunRepo) FindAllByCompany(ctx context.Context, companyID string, filter RunFilter) ([]PayrollRun, error) {
	var out []PayrollRun
	for _, run := range f.runs {
		if run.CompanyID.String() == companyID {
			out = append(out, *run)
		}
	}
	return out, nil
}

func (f *fakeRunRepo) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, year, month int) (*PayrollRun, error) {
	for _, run := range f.runs {
		if run.CompanyID.String() == companyID &&
			run.EmployeeID.String() == employeeID &&
			run.PeriodYear == year && run.PeriodMonth == month {
			out := *run
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRunRepo) Update(ctx context.Context, run *PayrollRun) error {
	stored := *run
	f.runs[run.ID.String()] = &stored
	return nil
}

type fakeEmployeeFeed struct {
	active []employee.Employee
}

func (f *fakeEmployeeFeed) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeFeed) Create(ctx context.Context, emp *employee.Employee) error { return nil }

func (f *fakeEmployeeFeed) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.active, nil
}

func (f *fakeEmployeeFeed) FindAllActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.active, nil
}

func (f *fakeEmployeeFeed) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error) {
	for i := range f.active {
		if f.active[i].ID.String() == id {
			return &f.active[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeFeed) FindByEmpCode(ctx context.Context, companyID string, empCode string) (*employee.Employee, error) {
	for i := range f.active {
		if f.active[i].EmpCode == empCode {
			return &f.active[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeFeed) EmailExists(ctx context.Context, email string, excludeID *string) (bool, error) {
	return false, nil
}

func (f *fakeEmployeeFeed) Update(ctx context.Context, emp *employee.Employee) error { return nil }

func (f *fakeEmployeeFeed) Delete(ctx context.Context, companyID string, id string) error {
	return nil
}

type fakeAttendanceFeed struct {
	rows []attendance.Attendance
}

func (f *fakeAttendanceFeed) WithTx(tx *sql.Tx) attendance.Repository { return f }

func (f *fakeAttendanceFeed) Create(ctx context.Context, a *attendance.Attendance) error { return nil }

func (f *fakeAttendanceFeed) Update(ctx context.Context, a *attendance.Attendance) error { return nil }

func (f *fakeAttendanceFeed) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceFeed) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	return f.rows, nil
}

func (f *fakeAttendanceFeed) FindAllByCompany(ctx context.Context, companyID string) ([]attendance.Attendance, error) {
	return f.rows, nil
}

func (f *fakeAttendanceFeed) FindAllByCompanyAndEmployee(ctx context.Context, companyID, employeeID string) ([]attendance.Attendance, error) {
	return f.rows, nil
}

type fakeLeaveFeed struct {
	rows []leave.Leave
}

func (f *fakeLeaveFeed) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveFeed) Create(ctx context.Context, l *leave.Leave) error { return nil }

func (f *fakeLeaveFeed) FindAllByCompany(ctx context.Context, companyID string) ([]leave.Leave, error) {
	return f.rows, nil
}

func (f *fakeLeaveFeed) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.Leave, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveFeed) FindApprovedOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	return f.rows, nil
}

func (f *fakeLeaveFeed) Update(ctx context.Context, l *leave.Leave) error { return nil }

func (f *fakeLeaveFeed) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeLeaveFeed) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	return true, nil
}

func (f *fakeLeaveFeed) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	return false, nil
}

type fakeHolidayFeed struct {
	rows []holiday.Holiday
}

func (f *fakeHolidayFeed) WithTx(tx *sql.Tx) holiday.Repository { return f }

func (f *fakeHolidayFeed) Create(ctx context.Context, h *holiday.Holiday) error { return nil }

func (f *fakeHolidayFeed) FindInRange(ctx context.Context, companyID string, start, end time.Time) ([]holiday.Holiday, error) {
	return f.rows, nil
}

func (f *fakeHolidayFeed) FindAllByCompany(ctx context.Context, companyID string) ([]holiday.Holiday, error) {
	return f.rows, nil
}

func (f *fakeHolidayFeed) Delete(ctx context.Context, companyID, id string) error { return nil }

type fakeSlabFeed struct {
	bands []taxslab.Band
}

func (f *fakeSlabFeed) Upsert(ctx context.Context, companyID string, req taxslab.UpsertTaxSlabRequest) (taxslab.TaxSlabResponse, error) {
	return taxslab.TaxSlabResponse{}, nil
}

func (f *fakeSlabFeed) GetActive(ctx context.Context, companyID string) (taxslab.TaxSlabResponse, error) {
	return taxslab.TaxSlabResponse{}, nil
}

func (f *fakeSlabFeed) ActiveBands(ctx context.Context, companyID string) ([]taxslab.Band, error) {
	return f.bands, nil
}

type fakeInvestmentFeed struct {
	declared map[string]float64
}

func (f *fakeInvestmentFeed) Declare(ctx context.Context, companyID string, req investment.DeclareTDSRequest) (investment.DeclarationResponse, error) {
	return investment.DeclarationResponse{}, nil
}

func (f *fakeInvestmentFeed) GetForEmployee(ctx context.Context, companyID, employeeID string) (investment.DeclarationResponse, error) {
	return investment.DeclarationResponse{}, nil
}

func (f *fakeInvestmentFeed) DeclaredTDS(ctx context.Context, companyID, employeeID string) (float64, error) {
	return f.declared[employeeID], nil
}

type serviceFixture struct {
	svc        Service
	repo       *fakeRunRepo
	mock       sqlmock.Sqlmock
	companyID  uuid.UUID
	actorID    uuid.UUID
	employeeID uuid.UUID
}

func newServiceFixture(t *testing.T, feeds Feeds) *serviceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeRunRepo()
	return &serviceFixture{
		svc:       NewService(db, repo, feeds, nil),
		repo:      repo,
		mock:      mock,
		companyID: uuid.New(),
		actorID:   uuid.New(),
	}
}

func standardEmployee(id uuid.UUID, companyID uuid.UUID) employee.Employee {
	return employee.Employee{
		ID:                    id,
		CompanyID:             companyID,
		EmpCode:               "EMP001",
		FullName:              "Asha Nair",
		Gender:                "Male",
		PayGroup:              "Regular",
		BasicMonthly:          "30000",
		HRAMonthly:            "15000",
		OtherAllowanceMonthly: "5000",
		PFMonthlyContribution: "1800",
		ESICMonthly:           "0",
	}
}

func fullMonthAttendance(p Period, companyID, employeeID uuid.UUID) []attendance.Attendance {
	rows := make([]attendance.Attendance, 0, p.TotalDays())
	for _, day := range p.Days() {
		rows = append(rows, attendance.Attendance{
			CompanyID:      companyID,
			EmployeeID:     employeeID,
			AttendanceDate: day,
			Status:         StatusPresent,
		})
	}
	return rows
}

func flatBand(rate float64) taxslab.Band {
	rates := [12]float64{}
	for i := range rates {
		rates[i] = rate
	}
	return taxslab.Band{Gender: "All", MinLimit: 25000, MaxLimit: 1e9, Rates: rates}
}

func TestService_ProcessAttendance(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()
	p := Period{Year: 2024, Month: 4}

	feeds := Feeds{
		Employees:   &fakeEmployeeFeed{active: []employee.Employee{standardEmployee(employeeID, companyID)}},
		Attendance:  &fakeAttendanceFeed{rows: fullMonthAttendance(p, companyID, employeeID)},
		Leaves:      &fakeLeaveFeed{},
		Holidays:    &fakeHolidayFeed{},
		Slabs:       &fakeSlabFeed{bands: []taxslab.Band{flatBand(200)}},
		Investments: &fakeInvestmentFeed{},
	}

	fx := newServiceFixture(t, feeds)
	fx.companyID = companyID
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.svc.ProcessAttendance(context.Background(), companyID.String(), fx.actorID.String(), ProcessAttendanceRequest{
		Year:  2024,
		Month: 4,
	})
	require.NoError(t, err)
	require.Len(t, resp.Succeeded, 1)
	assert.Empty(t, resp.Failed)
	assert.Equal(t, "2024-04", resp.Period)

	run := resp.Succeeded[0]
	assert.Equal(t, "EMP001", run.EmpCode)
	assert.Equal(t, StatusDraft, run.Status)
	assert.Equal(t, 30.0, run.Days.PayDays)
	assert.Equal(t, 50000.0, run.Earnings.TotalEarning)
	assert.Equal(t, 1800.0, run.Deductions.PFContribution)
	assert.Equal(t, 200.0, run.Deductions.ProfessionalTax)
	assert.Equal(t, 48000.0, run.NetPay)

	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestService_ProcessAttendance_Rerun_KeepsWorkflowColumns(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()
	p := Period{Year: 2024, Month: 4}

	feeds := Feeds{
		Employees:   &fakeEmployeeFeed{active: []employee.Employee{standardEmployee(employeeID, companyID)}},
		Attendance:  &fakeAttendanceFeed{rows: fullMonthAttendance(p, companyID, employeeID)},
		Leaves:      &fakeLeaveFeed{},
		Holidays:    &fakeHolidayFeed{},
		Slabs:       &fakeSlabFeed{},
		Investments: &fakeInvestmentFeed{},
	}

	fx := newServiceFixture(t, feeds)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	first, err := fx.svc.ProcessAttendance(context.Background(), companyID.String(), fx.actorID.String(), ProcessAttendanceRequest{Year: 2024, Month: 4})
	require.NoError(t, err)
	firstID := first.Succeeded[0].ID

	// Approve, then re-run the same period. The recomputation must not
	// reset the approval or mint a new row.
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	_, err = fx.svc.Approve(context.Background(), companyID.String(), fx.actorID.String(), firstID)
	require.NoError(t, err)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	second, err := fx.svc.ProcessAttendance(context.Background(), companyID.String(), fx.actorID.String(), ProcessAttendanceRequest{Year: 2024, Month: 4})
	require.NoError(t, err)

	require.Len(t, second.Succeeded, 1)
	assert.Equal(t, firstID, second.Succeeded[0].ID)
	assert.Equal(t, StatusApproved, second.Succeeded[0].Status)
}

func TestService_ProcessAttendance_UnknownCode(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()
	p := Period{Year: 2024, Month: 4}

	feeds := Feeds{
		Employees:   &fakeEmployeeFeed{active: []employee.Employee{standardEmployee(employeeID, companyID)}},
		Attendance:  &fakeAttendanceFeed{rows: fullMonthAttendance(p, companyID, employeeID)},
		Leaves:      &fakeLeaveFeed{},
		Holidays:    &fakeHolidayFeed{},
		Slabs:       &fakeSlabFeed{},
		Investments: &fakeInvestmentFeed{},
	}

	fx := newServiceFixture(t, feeds)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.svc.ProcessAttendance(context.Background(), companyID.String(), fx.actorID.String(), ProcessAttendanceRequest{
		Year:          2024,
		Month:         4,
		EmployeeCodes: []string{"EMP001", "GHOST"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Succeeded, 1)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "GHOST", resp.Failed[0].EmpCode)
}

func TestService_ProcessAttendance_InvalidPeriod(t *testing.T) {
	fx := newServiceFixture(t, Feeds{})

	_, err := fx.svc.ProcessAttendance(context.Background(), uuid.NewString(), uuid.NewString(), ProcessAttendanceRequest{Year: 2024, Month: 13})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
}

func TestService_ProcessAttendance_InvalidCompanyID(t *testing.T) {
	fx := newServiceFixture(t, Feeds{})

	_, err := fx.svc.ProcessAttendance(context.Background(), "not-a-uuid", uuid.NewString(), ProcessAttendanceRequest{Year: 2024, Month: 4})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidCompanyID)
}

func TestService_ApproveAndMarkAsPaid(t *testing.T) {
	fx := newServiceFixture(t, Feeds{})

	run := &PayrollRun{
		ID:          uuid.New(),
		CompanyID:   fx.companyID,
		EmployeeID:  uuid.New(),
		EmpCode:     "EMP001",
		PeriodYear:  2024,
		PeriodMonth: 4,
		Status:      StatusDraft,
		CreatedBy:   fx.actorID,
	}
	fx.repo.runs[run.ID.String()] = run

	// Paying a draft must be rejected.
	fx.mock.ExpectBegin()
	_, err := fx.svc.MarkAsPaid(context.Background(), fx.companyID.String(), fx.actorID.String(), run.ID.String(), MarkPaidRequest{PaidAt: "2024-05-01"})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	approved, err := fx.svc.Approve(context.Background(), fx.companyID.String(), fx.actorID.String(), run.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	// Approving twice must be rejected.
	fx.mock.ExpectBegin()
	_, err = fx.svc.Approve(context.Background(), fx.companyID.String(), fx.actorID.String(), run.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)

	// Paying without a disbursement timestamp must be rejected before
	// the transaction opens.
	_, err = fx.svc.MarkAsPaid(context.Background(), fx.companyID.String(), fx.actorID.String(), run.ID.String(), MarkPaidRequest{})
	assert.ErrorIs(t, err, payrollerrors.ErrPaidAtRequired)

	_, err = fx.svc.MarkAsPaid(context.Background(), fx.companyID.String(), fx.actorID.String(), run.ID.String(), MarkPaidRequest{PaidAt: "01/05/2024"})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPaidAt)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	paid, err := fx.svc.MarkAsPaid(context.Background(), fx.companyID.String(), fx.actorID.String(), run.ID.String(), MarkPaidRequest{PaidAt: "2024-05-01T10:30:00Z"})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "2024-05-01T10:30:00Z", *paid.PaidAt)
}

func TestParsePaidAt(t *testing.T) {
	got, err := parsePaidAt("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parsePaidAt("2024-05-01T10:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC), got)

	_, err = parsePaidAt("  ")
	assert.ErrorIs(t, err, payrollerrors.ErrPaidAtRequired)

	_, err = parsePaidAt("yesterday")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPaidAt)
}

func TestService_GetByID_NotFound(t *testing.T) {
	fx := newServiceFixture(t, Feeds{})

	_, err := fx.svc.GetByID(context.Background(), fx.companyID.String(), uuid.NewString())
	assert.ErrorIs(t, err, payrollerrors.ErrRunNotFound)
}

func TestService_MoneyValueCoercion(t *testing.T) {
	fx := newServiceFixture(t, Feeds{})
	svc := fx.svc.(*service)

	emp := standardEmployee(uuid.New(), fx.companyID)
	emp.BasicMonthly = "garbage"
	emp.HRAMonthly = ""

	comp := svc.compensationFor(emp)
	assert.Equal(t, 0.0, comp.BasicMonthly)
	assert.Equal(t, 0.0, comp.HRAMonthly)
	assert.Equal(t, 5000.0, comp.OtherAllowanceMonthly)
}
