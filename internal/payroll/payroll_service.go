package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"hrms-payroll/internal/attendance"
	"hrms-payroll/internal/employee"
	"hrms-payroll/internal/events"
	"hrms-payroll/internal/holiday"
	"hrms-payroll/internal/investment"
	"hrms-payroll/internal/leave"
	"hrms-payroll/internal/messaging/kafka"
	payrollerrors "hrms-payroll/internal/payroll/errors"
	"hrms-payroll/internal/shared/contextutil"
	"hrms-payroll/internal/taxslab"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusDraft    = "DRAFT"
	StatusApproved = "APPROVED"
	StatusPaid     = "PAID"
)

// Feeds are the read-side dependencies of the payroll pipeline: the
// masters and transactions every computation is derived from.
type Feeds struct {
	Employees   employee.Repository
	Attendance  attendance.Repository
	Leaves      leave.Repository
	Holidays    holiday.Repository
	Slabs       taxslab.Service
	Investments investment.Service
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	ProcessAttendance(ctx context.Context, companyID, actorID string, req ProcessAttendanceRequest) (ProcessAttendanceResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetRunsFilterRequest) ([]PayrollRunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollRunResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error)
	MarkAsPaid(ctx context.Context, companyID, actorID, id string, req MarkPaidRequest) (PayrollRunResponse, error)
	RequestPayslip(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error)

	Payslip(ctx context.Context, companyID, empCode string, year, month int) (PayslipResponse, error)
	PayslipPDF(ctx context.Context, companyID, empCode string, year, month int) ([]byte, error)
	GeneratePayslip(ctx context.Context, companyID, payrollID string) (PayslipResponse, error)
	BankChallanCSV(ctx context.Context, companyID string, year, month int) ([]byte, error)
	AnnualReport(ctx context.Context, companyID, empCode string, fiscalYear int) (AnnualReportResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	feeds  Feeds
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	feeds Feeds,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{db: db, repo: repo, feeds: feeds, outbox: outbox, logger: l}
}

// ProcessAttendance runs the full pipeline for one period over the
// selected employees, upserting one DRAFT run per employee. Employee
// failures never abort siblings; they come back in the Failed list.
func (s *service) ProcessAttendance(
	ctx context.Context,
	companyID, actorID string,
	req ProcessAttendanceRequest,
) (ProcessAttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ProcessAttendanceResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ProcessAttendanceResponse{}, payrollerrors.ErrInvalidActorID
	}
	p, err := NewPeriod(req.Year, req.Month)
	if err != nil {
		return ProcessAttendanceResponse{}, err
	}

	employees, failed, err := s.selectEmployees(ctx, companyID, req.EmployeeCodes)
	if err != nil {
		return ProcessAttendanceResponse{}, err
	}
	if len(employees) == 0 {
		return ProcessAttendanceResponse{}, payrollerrors.ErrNoEmployees
	}

	byCode := make(map[string]employee.Employee, len(employees))
	codes := make([]string, len(employees))
	for i, emp := range employees {
		byCode[emp.EmpCode] = emp
		codes[i] = emp.EmpCode
	}

	batch := RunBatch(ctx, codes, func(ctx context.Context, code string) (PayrollResult, error) {
		return s.computeForEmployee(ctx, companyID, byCode[code], p, TDSProrated)
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProcessAttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	for _, result := range batch.Results {
		emp := byCode[result.EmpCode]
		run := runFromResult(companyUUID, emp.ID, actorUUID, result)
		if err := qtx.Upsert(ctx, run); err != nil {
			return ProcessAttendanceResponse{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return ProcessAttendanceResponse{}, err
	}

	resp := ProcessAttendanceResponse{
		Period: p.String(),
		Failed: append(failed, batch.Errors...),
	}
	for _, result := range batch.Results {
		emp := byCode[result.EmpCode]
		run, err := s.repo.FindByEmployeeAndPeriod(ctx, companyID, emp.ID.String(), p.Year, p.Month)
		if err != nil {
			return ProcessAttendanceResponse{}, err
		}
		resp.Succeeded = append(resp.Succeeded, mapRunToResponse(*run))
	}

	s.logger.Info("attendance processed",
		zap.String("company_id", companyID),
		zap.String("period", p.String()),
		zap.Int("succeeded", len(resp.Succeeded)),
		zap.Int("failed", len(resp.Failed)),
	)
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter GetRunsFilterRequest) ([]PayrollRunResponse, error) {
	runs, err := s.repo.FindAllByCompany(ctx, companyID, RunFilter{
		Year:   filter.Year,
		Month:  filter.Month,
		Status: filter.Status,
	})
	if err != nil {
		return nil, err
	}
	resp := make([]PayrollRunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapRunToResponse(run)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollRunResponse, error) {
	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollRunResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	run, err := s.findRunWith(ctx, qtx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if run.Status != StatusDraft {
		return PayrollRunResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	run.Status = StatusApproved
	run.ApprovedBy = &actorUUID
	run.ApprovedAt = &now

	if err := qtx.Update(ctx, run); err != nil {
		return PayrollRunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, actorID, id string, req MarkPaidRequest) (PayrollRunResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return PayrollRunResponse{}, payrollerrors.ErrInvalidActorID
	}
	paidAt, err := parsePaidAt(req.PaidAt)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	run, err := s.findRunWith(ctx, qtx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}
	if run.Status != StatusApproved {
		return PayrollRunResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	run.Status = StatusPaid
	run.PaidAt = &paidAt

	if err := qtx.Update(ctx, run); err != nil {
		return PayrollRunResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollRunResponse{}, err
	}
	return mapRunToResponse(*run), nil
}

// parsePaidAt enforces that a paid run carries the disbursement time
// supplied by the caller, not a server-side stamp.
func parsePaidAt(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, payrollerrors.ErrPaidAtRequired
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, payrollerrors.ErrInvalidPaidAt
}

// RequestPayslip queues async payslip generation by writing a
// requested event to the outbox in the same transaction that touches
// nothing else; the worker publishes it and the consumer generates.
func (s *service) RequestPayslip(ctx context.Context, companyID, actorID, id string) (PayrollRunResponse, error) {
	run, err := s.findRun(ctx, companyID, id)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	if s.outbox != nil {
		event := events.PayrollPayslipRequestedEvent{
			EventType:   "payroll.payslip.requested",
			PayrollID:   run.ID.String(),
			CompanyID:   companyID,
			RequestedBy: actorID,
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return PayrollRunResponse{}, err
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return PayrollRunResponse{}, err
		}
		defer tx.Rollback()

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "payroll_run",
			AggregateID:   run.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PayrollPayslipRequestedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return PayrollRunResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return PayrollRunResponse{}, err
		}
	}

	return mapRunToResponse(*run), nil
}

// selectEmployees resolves the target set for a batch run. Unknown
// codes become per-employee failures, not a request failure.
func (s *service) selectEmployees(
	ctx context.Context,
	companyID string,
	empCodes []string,
) ([]employee.Employee, []EmployeeError, error) {
	active, err := s.feeds.Employees.FindAllActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	if len(empCodes) == 0 {
		return active, nil, nil
	}

	byCode := make(map[string]employee.Employee, len(active))
	for _, emp := range active {
		byCode[emp.EmpCode] = emp
	}

	var selected []employee.Employee
	var failed []EmployeeError
	for _, code := range empCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		emp, ok := byCode[code]
		if !ok {
			failed = append(failed, EmployeeError{
				EmpCode: code,
				Message: payrollerrors.ErrEmployeeNotFound.Message,
			})
			continue
		}
		selected = append(selected, emp)
	}
	return selected, failed, nil
}

// computeForEmployee pulls every feed for one employee and one period
// and runs the pure pipeline over them.
func (s *service) computeForEmployee(
	ctx context.Context,
	companyID string,
	emp employee.Employee,
	p Period,
	mode TDSMode,
) (PayrollResult, error) {
	comp := s.compensationFor(emp)

	rows, err := s.feeds.Attendance.FindByEmployeeAndPeriod(ctx, companyID, emp.ID.String(), p.Start(), p.End())
	if err != nil {
		return PayrollResult{}, err
	}
	records := make([]AttendanceDay, len(rows))
	for i, row := range rows {
		records[i] = AttendanceDay{Date: row.AttendanceDate, Status: row.Status}
	}

	leaveRows, err := s.feeds.Leaves.FindApprovedOverlapping(ctx, companyID, emp.ID.String(), p.Start(), p.End())
	if err != nil {
		return PayrollResult{}, err
	}
	spans := make([]LeaveSpan, len(leaveRows))
	for i, row := range leaveRows {
		spans[i] = LeaveSpan{
			StartDate:       row.StartDate,
			EndDate:         row.EndDate,
			LeaveType:       row.LeaveType,
			HRApproval:      row.HRApproval,
			ManagerApproval: row.ManagerApproval,
		}
	}

	holidayRows, err := s.feeds.Holidays.FindInRange(ctx, companyID, p.Start(), p.End())
	if err != nil {
		return PayrollResult{}, err
	}
	dates := make([]time.Time, len(holidayRows))
	for i, row := range holidayRows {
		dates[i] = row.EventDate
	}

	summary, skipped := BuildAttendanceSummary(p, records, spans, NewHolidaySet(dates))
	for _, skipErr := range skipped {
		s.logger.Warn("leave span skipped",
			zap.String("emp_code", emp.EmpCode),
			zap.String("period", p.String()),
			zap.Error(skipErr),
		)
	}

	bands, err := s.feeds.Slabs.ActiveBands(ctx, companyID)
	if err != nil {
		return PayrollResult{}, err
	}
	slab := TaxSlabConfig{Bands: make([]SlabBand, len(bands))}
	for i, band := range bands {
		slab.Bands[i] = SlabBand{
			Gender:   band.Gender,
			MinLimit: band.MinLimit,
			MaxLimit: band.MaxLimit,
			Rates:    band.Rates,
		}
	}

	declared, err := s.feeds.Investments.DeclaredTDS(ctx, companyID, emp.ID.String())
	if err != nil {
		return PayrollResult{}, err
	}

	return Compute(comp, slab, p, summary, declared, mode), nil
}

func (s *service) compensationFor(emp employee.Employee) CompensationConfig {
	return CompensationConfig{
		EmpCode:               emp.EmpCode,
		BasicMonthly:          s.moneyValue(emp.EmpCode, "basic_monthly", emp.BasicMonthly),
		HRAMonthly:            s.moneyValue(emp.EmpCode, "hra_monthly", emp.HRAMonthly),
		OtherAllowanceMonthly: s.moneyValue(emp.EmpCode, "other_allowance_monthly", emp.OtherAllowanceMonthly),
		PFMonthlyContribution: s.moneyValue(emp.EmpCode, "pf_monthly_contribution", emp.PFMonthlyContribution),
		ESICMonthly:           s.moneyValue(emp.EmpCode, "esic_monthly", emp.ESICMonthly),
		Gender:                emp.Gender,
		PayGroup:              emp.PayGroup,
	}
}

// moneyValue coerces a stored money string. Absent and unparseable
// values become 0; unparseable ones are logged because they usually
// mean bad data entry, not an intentional zero.
func (s *service) moneyValue(empCode, field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.logger.Warn("unparseable money value, defaulting to 0",
			zap.String("emp_code", empCode),
			zap.String("field", field),
			zap.String("value", raw),
		)
		return 0
	}
	return v
}

func (s *service) findRun(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	return s.findRunWith(ctx, s.repo, companyID, id)
}

func (s *service) findRunWith(ctx context.Context, repo Repository, companyID, id string) (*PayrollRun, error) {
	run, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func runFromResult(companyID, employeeID, createdBy uuid.UUID, r PayrollResult) *PayrollRun {
	return &PayrollRun{
		ID:          uuid.New(),
		CompanyID:   companyID,
		EmployeeID:  employeeID,
		EmpCode:     r.EmpCode,
		PeriodYear:  r.Period.Year,
		PeriodMonth: r.Period.Month,
		TotalDays:   r.TotalDays,

		PresentDays:   r.Summary.PresentDays,
		AbsentDays:    r.Summary.AbsentDays,
		HalfDays:      r.Summary.HalfDays,
		PaidLeaveDays: r.Summary.PaidLeaveDays,
		SickLeaveDays: r.Summary.SickLeaveDays,
		PayDays:       r.Summary.PayDays,
		LOPDays:       r.Summary.LOPDays,

		BasicEarned:  r.Earnings.BasicEarned,
		HRAEarned:    r.Earnings.HRAEarned,
		OtherEarned:  r.Earnings.OtherEarned,
		TotalEarning: r.Earnings.TotalEarning,

		PFContribution:  r.Deduction.PFContribution,
		ESIEarned:       r.Deduction.ESIEarned,
		ProfessionalTax: r.Deduction.ProfessionalTax,
		IncomeTax:       r.Deduction.IncomeTax,
		TotalDeduction:  r.Deduction.TotalDeduction,
		NetPay:          r.NetPay,

		Status:    StatusDraft,
		CreatedBy: createdBy,
	}
}

func mapRunToResponse(run PayrollRun) PayrollRunResponse {
	resp := PayrollRunResponse{
		ID:         run.ID.String(),
		CompanyID:  run.CompanyID.String(),
		EmployeeID: run.EmployeeID.String(),
		EmpCode:    run.EmpCode,
		Year:       run.PeriodYear,
		Month:      run.PeriodMonth,
		Days: DayCounts{
			TotalDays:     run.TotalDays,
			PresentDays:   Round1(run.PresentDays),
			AbsentDays:    Round1(run.AbsentDays),
			HalfDays:      Round1(run.HalfDays),
			PaidLeaveDays: Round1(run.PaidLeaveDays),
			SickLeaveDays: Round1(run.SickLeaveDays),
			PayDays:       Round1(run.PayDays),
			LOPDays:       Round1(run.LOPDays),
		},
		Earnings: EarningsResponse{
			BasicEarned:  run.BasicEarned,
			HRAEarned:    run.HRAEarned,
			OtherEarned:  run.OtherEarned,
			TotalEarning: run.TotalEarning,
		},
		Deductions: DeductionsResponse{
			PFContribution:  run.PFContribution,
			ESIEarned:       run.ESIEarned,
			ProfessionalTax: run.ProfessionalTax,
			IncomeTax:       run.IncomeTax,
			TotalDeduction:  run.TotalDeduction,
		},
		NetPay:    run.NetPay,
		Status:    run.Status,
		CreatedBy: run.CreatedBy.String(),
	}

	if run.ApprovedBy != nil {
		v := run.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if run.ApprovedAt != nil {
		v := run.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if run.PaidAt != nil {
		v := run.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	if run.PayslipGeneratedAt != nil {
		v := run.PayslipGeneratedAt.Format(time.RFC3339)
		resp.PayslipGeneratedAt = &v
	}
	return resp
}
