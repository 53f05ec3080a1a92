package payroll

import (
	"time"

	payrollerrors "hrms-payroll/internal/payroll/errors"
)

const dateLayout = "2006-01-02"

// Period identifies one payroll month. The computation never reads the
// wall clock; callers pass the period explicitly.
type Period struct {
	Year  int
	Month int
}

func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Year <= 0 || p.Month < 1 || p.Month > 12 {
		return payrollerrors.ErrInvalidPeriod
	}
	return nil
}

// TotalDays returns the number of calendar days in the period.
// Day 0 of the following month normalizes to the last day of this one.
func (p Period) TotalDays() int {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) End() time.Time {
	return time.Date(p.Year, time.Month(p.Month), p.TotalDays(), 0, 0, 0, 0, time.UTC)
}

// Days enumerates every calendar day of the period in order.
func (p Period) Days() []time.Time {
	days := make([]time.Time, 0, p.TotalDays())
	for d := 1; d <= p.TotalDays(); d++ {
		days = append(days, time.Date(p.Year, time.Month(p.Month), d, 0, 0, 0, 0, time.UTC))
	}
	return days
}

func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

func (p Period) String() string {
	return p.Start().Format("2006-01")
}

// DateKey is the canonical per-day map key used by the pipeline's
// date sets.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// DateRange returns every day from start to end inclusive. An inverted
// range yields nil; callers decide whether that is an error.
func DateRange(start, end time.Time) []time.Time {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if start.After(end) {
		return nil
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Weekdays filters Saturdays and Sundays out of a day sequence. Leave
// spans never consume weekend days.
func Weekdays(days []time.Time) []time.Time {
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// HolidaySet answers whether a calendar day is a company-wide holiday.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates []time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[DateKey(d)] = struct{}{}
	}
	return set
}

func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[DateKey(t)]
	return ok
}
