package payroll

import (
	"fmt"
	"math"
	"time"

	payrollerrors "hrms-payroll/internal/payroll/errors"
)

// Attendance statuses as they appear in the attendance rows. The column
// is free text; anything unrecognized is treated as a non-deducting day.
const (
	StatusPresent      = "Present"
	StatusAbsent       = "Absent"
	StatusHalfDay      = "Half-day"
	StatusWorkFromHome = "Work From Home"
	StatusPaidLeave    = "Paid Leave"
	StatusSickHalfDay  = "Sick Leave(HalfDay)"
	StatusSickFullDay  = "Sick Leave(FullDay)"
	StatusWeekOff      = "Week Off"
)

const ApprovalApproved = "Approved"

// AttendanceDay is one logged attendance row. At most one per employee
// per date.
type AttendanceDay struct {
	Date   time.Time
	Status string
}

// LeaveSpan is an approved-or-pending leave request covering an
// inclusive date range. Only spans with both approvals count.
type LeaveSpan struct {
	StartDate       time.Time
	EndDate         time.Time
	LeaveType       string
	HRApproval      string
	ManagerApproval string
}

func (l LeaveSpan) Approved() bool {
	return l.HRApproval == ApprovalApproved && l.ManagerApproval == ApprovalApproved
}

// AttendanceSummary is the per-employee monthly reduction of attendance,
// leave and holiday records. Day counts carry 0.5 granularity; PayDays
// and LOPDays are the unrounded values monetary math runs on.
type AttendanceSummary struct {
	PresentDays   float64
	AbsentDays    float64
	HalfDays      float64
	PaidLeaveDays float64
	SickLeaveDays float64
	PayDays       float64
	LOPDays       float64
}

// BuildAttendanceSummary runs the classifier, the leave overlay and the
// pay-days aggregation for one employee and one period. Malformed leave
// spans are skipped and reported in the second return value, never
// fatal. The input records must already be restricted to the period.
func BuildAttendanceSummary(
	p Period,
	records []AttendanceDay,
	leaves []LeaveSpan,
	holidays HolidaySet,
) (AttendanceSummary, []error) {
	var s AttendanceSummary
	totalDays := float64(p.TotalDays())

	// Day classification. A date with no attendance row defaults to
	// absent unless a holiday covers it; holidays also neutralize
	// half-day markings on the same date.
	recorded := make(map[string]string, len(records))
	for _, r := range records {
		recorded[DateKey(r.Date)] = r.Status
	}

	missing := make(map[string]struct{})
	for _, day := range p.Days() {
		status, ok := recorded[DateKey(day)]
		if !ok {
			if holidays.Contains(day) {
				s.PresentDays++
			} else {
				s.AbsentDays++
				missing[DateKey(day)] = struct{}{}
			}
			continue
		}
		switch status {
		case StatusAbsent:
			s.AbsentDays++
		case StatusHalfDay:
			if holidays.Contains(day) {
				// Holiday wins over the half-day marking.
				s.PresentDays++
			} else {
				s.HalfDays += 0.5
				s.PresentDays += 0.5
			}
		default:
			s.PresentDays++
		}
	}

	// Leave overlay. Spans expand over weekdays only; a paid-leave date
	// that the classifier counted absent is credited back exactly once
	// via the date-set intersection below.
	var skipped []error
	paidLeaveDates := make(map[string]struct{})
	for _, leave := range leaves {
		if !leave.Approved() {
			continue
		}
		if leave.StartDate.After(leave.EndDate) {
			skipped = append(skipped, fmt.Errorf(
				"leave span %s..%s: %w",
				leave.StartDate.Format(dateLayout),
				leave.EndDate.Format(dateLayout),
				payrollerrors.ErrInvalidLeaveSpan,
			))
			continue
		}
		for _, day := range Weekdays(DateRange(leave.StartDate, leave.EndDate)) {
			if !p.Contains(day) {
				continue
			}
			switch leave.LeaveType {
			case StatusPaidLeave, StatusWorkFromHome:
				s.PaidLeaveDays++
				paidLeaveDates[DateKey(day)] = struct{}{}
			case StatusSickHalfDay:
				s.SickLeaveDays += 0.5
			case StatusSickFullDay:
				s.SickLeaveDays++
			}
		}
	}

	for key := range paidLeaveDates {
		if _, ok := missing[key]; ok {
			s.AbsentDays--
		}
	}
	if s.AbsentDays < 0 {
		s.AbsentDays = 0
	}

	// Aggregation. PayDays keeps its fractional value; display rounding
	// happens at the response layer only.
	s.PresentDays += s.PaidLeaveDays
	s.PayDays = totalDays - s.AbsentDays - s.HalfDays + s.SickLeaveDays
	if s.PayDays < 0 {
		s.PayDays = 0
	}
	if s.PayDays > totalDays {
		s.PayDays = totalDays
	}
	s.LOPDays = totalDays - s.PayDays
	if s.LOPDays < 0 {
		s.LOPDays = 0
	}

	return s, skipped
}

// Round1 is the one-decimal display rounding applied to day counts in
// responses. Monetary math always uses the unrounded values.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
