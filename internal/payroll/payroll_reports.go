package payroll

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hrms-payroll/internal/employee"
	"hrms-payroll/internal/events"
	"hrms-payroll/internal/messaging/kafka"
	payrollerrors "hrms-payroll/internal/payroll/errors"
	"hrms-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fiscalYearStartMonth is April; an Indian fiscal year labeled N runs
// April N through March N+1.
const fiscalYearStartMonth = 4

// Payslip recomputes one employee-month from the live feeds with
// prorated TDS and renders the breakdown with the net amount in words.
func (s *service) Payslip(ctx context.Context, companyID, empCode string, year, month int) (PayslipResponse, error) {
	emp, p, err := s.resolveEmployeePeriod(ctx, companyID, empCode, year, month)
	if err != nil {
		return PayslipResponse{}, err
	}

	result, err := s.computeForEmployee(ctx, companyID, *emp, p, TDSProrated)
	if err != nil {
		return PayslipResponse{}, err
	}
	return payslipFromResult(*emp, result), nil
}

// PayslipPDF renders the payslip as a PDF. When a persisted run exists
// for the period it is stamped generated and a generated event goes to
// the outbox; an ad hoc payslip without a run is still served.
func (s *service) PayslipPDF(ctx context.Context, companyID, empCode string, year, month int) ([]byte, error) {
	emp, p, err := s.resolveEmployeePeriod(ctx, companyID, empCode, year, month)
	if err != nil {
		return nil, err
	}

	result, err := s.computeForEmployee(ctx, companyID, *emp, p, TDSProrated)
	if err != nil {
		return nil, err
	}
	slip := payslipFromResult(*emp, result)

	pdf, err := renderPayslipPDF(slip)
	if err != nil {
		return nil, err
	}

	run, err := s.repo.FindByEmployeeAndPeriod(ctx, companyID, emp.ID.String(), p.Year, p.Month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("payslip served without persisted run",
				zap.String("emp_code", empCode),
				zap.String("period", p.String()),
			)
			return pdf, nil
		}
		return nil, err
	}

	if err := s.markPayslipGenerated(ctx, companyID, run); err != nil {
		return nil, err
	}
	return pdf, nil
}

// GeneratePayslip is the consumer-side path: it recomputes the payslip
// for a persisted run and stamps the run generated.
func (s *service) GeneratePayslip(ctx context.Context, companyID, payrollID string) (PayslipResponse, error) {
	run, err := s.findRun(ctx, companyID, payrollID)
	if err != nil {
		return PayslipResponse{}, err
	}

	emp, err := s.feeds.Employees.FindByIDAndCompany(ctx, companyID, run.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return PayslipResponse{}, err
	}

	p, err := NewPeriod(run.PeriodYear, run.PeriodMonth)
	if err != nil {
		return PayslipResponse{}, err
	}
	result, err := s.computeForEmployee(ctx, companyID, *emp, p, TDSProrated)
	if err != nil {
		return PayslipResponse{}, err
	}

	if err := s.markPayslipGenerated(ctx, companyID, run); err != nil {
		return PayslipResponse{}, err
	}
	return payslipFromResult(*emp, result), nil
}

// BankChallanCSV exports one CSV line per active employee for the
// period. TDS is the declared value unprorated here; the payslip path
// prorates. The difference is deliberate and must not be unified
// without a product decision.
func (s *service) BankChallanCSV(ctx context.Context, companyID string, year, month int) ([]byte, error) {
	p, err := NewPeriod(year, month)
	if err != nil {
		return nil, err
	}

	employees, err := s.feeds.Employees.FindAllActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, payrollerrors.ErrNoEmployees
	}

	byCode := make(map[string]employee.Employee, len(employees))
	codes := make([]string, len(employees))
	for i, emp := range employees {
		byCode[emp.EmpCode] = emp
		codes[i] = emp.EmpCode
	}

	batch := RunBatch(ctx, codes, func(ctx context.Context, code string) (PayrollResult, error) {
		return s.computeForEmployee(ctx, companyID, byCode[code], p, TDSFlat)
	})
	for _, fail := range batch.Errors {
		s.logger.Warn("employee skipped in bank challan",
			zap.String("emp_code", fail.EmpCode),
			zap.String("period", p.String()),
			zap.String("reason", fail.Message),
		)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"emp_code", "full_name", "period", "pay_days",
		"total_earning", "pf_contribution", "esi", "professional_tax",
		"tds", "total_deduction", "net_pay",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range batch.Results {
		emp := byCode[r.EmpCode]
		record := []string{
			r.EmpCode,
			emp.FullName,
			p.String(),
			fmt.Sprintf("%.1f", Round1(r.Summary.PayDays)),
			fmt.Sprintf("%.2f", r.Earnings.TotalEarning),
			fmt.Sprintf("%.2f", r.Deduction.PFContribution),
			fmt.Sprintf("%.2f", r.Deduction.ESIEarned),
			fmt.Sprintf("%.2f", r.Deduction.ProfessionalTax),
			fmt.Sprintf("%.2f", r.Deduction.IncomeTax),
			fmt.Sprintf("%.2f", r.Deduction.TotalDeduction),
			fmt.Sprintf("%.2f", r.NetPay),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AnnualReport aggregates twelve monthly computations across the
// fiscal year, April through March, with prorated TDS.
func (s *service) AnnualReport(ctx context.Context, companyID, empCode string, fiscalYear int) (AnnualReportResponse, error) {
	if fiscalYear < 2000 || fiscalYear > 2100 {
		return AnnualReportResponse{}, payrollerrors.ErrInvalidFiscalYear
	}
	emp, err := s.findEmployeeByCode(ctx, companyID, empCode)
	if err != nil {
		return AnnualReportResponse{}, err
	}

	resp := AnnualReportResponse{
		EmpCode:    emp.EmpCode,
		FiscalYear: fiscalYear,
	}
	for i := 0; i < 12; i++ {
		year := fiscalYear
		month := fiscalYearStartMonth + i
		if month > 12 {
			month -= 12
			year++
		}
		p, err := NewPeriod(year, month)
		if err != nil {
			return AnnualReportResponse{}, err
		}

		result, err := s.computeForEmployee(ctx, companyID, *emp, p, TDSProrated)
		if err != nil {
			return AnnualReportResponse{}, err
		}

		resp.Months = append(resp.Months, AnnualReportMonth{
			Year:       year,
			Month:      month,
			Days:       dayCountsFromResult(result),
			Earnings:   earningsResponse(result.Earnings),
			Deductions: deductionsResponse(result.Deduction),
			NetPay:     result.NetPay,
		})
		resp.TotalEarning += result.Earnings.TotalEarning
		resp.TotalDeduction += result.Deduction.TotalDeduction
		resp.TotalNetPay += result.NetPay
	}
	return resp, nil
}

// markPayslipGenerated stamps the run and writes the generated event
// to the outbox in the same transaction.
func (s *service) markPayslipGenerated(ctx context.Context, companyID string, run *PayrollRun) error {
	now := time.Now().UTC()
	run.PayslipGeneratedAt = &now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, run); err != nil {
		return err
	}

	if s.outbox != nil {
		event := events.PayrollPayslipGeneratedEvent{
			EventType:  "payroll.payslip.generated",
			PayrollID:  run.ID.String(),
			EmpCode:    run.EmpCode,
			CompanyID:  companyID,
			Period:     fmt.Sprintf("%04d-%02d", run.PeriodYear, run.PeriodMonth),
			OccurredAt: now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "payroll_run",
			AggregateID:   run.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PayrollPayslipGeneratedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *service) resolveEmployeePeriod(
	ctx context.Context,
	companyID, empCode string,
	year, month int,
) (*employee.Employee, Period, error) {
	p, err := NewPeriod(year, month)
	if err != nil {
		return nil, Period{}, err
	}
	emp, err := s.findEmployeeByCode(ctx, companyID, empCode)
	if err != nil {
		return nil, Period{}, err
	}
	return emp, p, nil
}

func (s *service) findEmployeeByCode(ctx context.Context, companyID, empCode string) (*employee.Employee, error) {
	if empCode == "" {
		return nil, payrollerrors.ErrInvalidEmpCode
	}
	emp, err := s.feeds.Employees.FindByEmpCode(ctx, companyID, empCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

func payslipFromResult(emp employee.Employee, r PayrollResult) PayslipResponse {
	return PayslipResponse{
		EmpCode:       emp.EmpCode,
		FullName:      emp.FullName,
		Period:        r.Period.String(),
		Days:          dayCountsFromResult(r),
		Earnings:      earningsResponse(r.Earnings),
		Deductions:    deductionsResponse(r.Deduction),
		NetPay:        r.NetPay,
		NetPayInWords: AmountInWords(int64(r.NetPay)),
	}
}

func dayCountsFromResult(r PayrollResult) DayCounts {
	return DayCounts{
		TotalDays:     r.TotalDays,
		PresentDays:   Round1(r.Summary.PresentDays),
		AbsentDays:    Round1(r.Summary.AbsentDays),
		HalfDays:      Round1(r.Summary.HalfDays),
		PaidLeaveDays: Round1(r.Summary.PaidLeaveDays),
		SickLeaveDays: Round1(r.Summary.SickLeaveDays),
		PayDays:       Round1(r.Summary.PayDays),
		LOPDays:       Round1(r.Summary.LOPDays),
	}
}

func earningsResponse(e Earnings) EarningsResponse {
	return EarningsResponse{
		BasicEarned:  e.BasicEarned,
		HRAEarned:    e.HRAEarned,
		OtherEarned:  e.OtherEarned,
		TotalEarning: e.TotalEarning,
	}
}

func deductionsResponse(d Deductions) DeductionsResponse {
	return DeductionsResponse{
		PFContribution:  d.PFContribution,
		ESIEarned:       d.ESIEarned,
		ProfessionalTax: d.ProfessionalTax,
		IncomeTax:       d.IncomeTax,
		TotalDeduction:  d.TotalDeduction,
	}
}
