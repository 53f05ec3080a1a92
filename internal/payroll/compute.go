package payroll

import (
	"math"
	"strings"
	"time"
)

const (
	pfRate         = 0.12
	pfMonthlyCap   = 1800
	payGroupIntern = "Intern"
	genderFemale   = "Female"
	genderAll      = "All"
)

// CompensationConfig is the static monthly compensation of one
// employee, already coerced from the stored string columns (absent or
// unparseable values default to zero upstream).
type CompensationConfig struct {
	EmpCode               string
	BasicMonthly          float64
	HRAMonthly            float64
	OtherAllowanceMonthly float64
	PFMonthlyContribution float64
	ESICMonthly           float64
	Gender                string
	PayGroup              string
}

// SlabBand is one professional-tax band. Bands are evaluated in index
// order; the first gender+income match wins.
type SlabBand struct {
	Gender   string
	MinLimit float64
	MaxLimit float64
	Rates    [12]float64 // January..December
}

// TaxSlabConfig is the active professional-tax configuration, at most
// five ordered bands.
type TaxSlabConfig struct {
	Bands []SlabBand
}

// TDSMode selects which of the two historical TDS behaviors applies.
// The bank challan export uses the declared value verbatim; the payslip
// prorates it by pay days. Both are preserved deliberately.
type TDSMode int

const (
	TDSProrated TDSMode = iota
	TDSFlat
)

type Earnings struct {
	BasicEarned  float64
	HRAEarned    float64
	OtherEarned  float64
	TotalEarning float64
}

type Deductions struct {
	PFContribution  float64
	ESIEarned       float64
	ProfessionalTax float64
	IncomeTax       float64
	TotalDeduction  float64
}

// PayrollResult is the full output of one employee-month computation.
type PayrollResult struct {
	EmpCode   string
	Period    Period
	TotalDays int
	Summary   AttendanceSummary
	Earnings  Earnings
	Deduction Deductions
	NetPay    float64
}

// Prorate earns a monthly amount by pay days, rounded to the nearest
// rupee. The division happens before the multiplication; reordering
// changes cent-level output.
func Prorate(monthly float64, totalDays int, payDays float64) float64 {
	return math.Round(monthly / float64(totalDays) * payDays)
}

// ComputeEarnings prorates the three salary components. TotalEarning is
// the sum of the already-rounded components, not a rounded sum.
func ComputeEarnings(comp CompensationConfig, totalDays int, payDays float64) Earnings {
	e := Earnings{
		BasicEarned: Prorate(comp.BasicMonthly, totalDays, payDays),
		HRAEarned:   Prorate(comp.HRAMonthly, totalDays, payDays),
		OtherEarned: Prorate(comp.OtherAllowanceMonthly, totalDays, payDays),
	}
	e.TotalEarning = e.BasicEarned + e.HRAEarned + e.OtherEarned
	return e
}

// ComputePF returns the employee PF contribution: 12% of the earned
// basic, hard-capped at 1800. Employees without a recorded PF
// contribution are outside the scheme and contribute nothing.
func ComputePF(comp CompensationConfig, totalDays int, payDays float64) float64 {
	if comp.PFMonthlyContribution == 0 {
		return 0
	}
	basicEarned := Prorate(comp.BasicMonthly, totalDays, payDays)
	pf := math.Round(basicEarned * pfRate)
	if pf > pfMonthlyCap {
		pf = pfMonthlyCap
	}
	return pf
}

// ComputeESI prorates the monthly ESI amount by pay days.
func ComputeESI(comp CompensationConfig, totalDays int, payDays float64) float64 {
	return math.Round(comp.ESICMonthly / float64(totalDays) * payDays)
}

// LookupProfessionalTax walks the slab bands in order and returns the
// rate of the first band whose gender matches and whose inclusive
// income range contains totalEarning. Female interns are exempt. No
// matching band means no tax.
func LookupProfessionalTax(
	cfg TaxSlabConfig,
	comp CompensationConfig,
	totalEarning float64,
	month time.Month,
) float64 {
	if strings.EqualFold(comp.PayGroup, payGroupIntern) &&
		strings.EqualFold(comp.Gender, genderFemale) {
		return 0
	}
	for _, band := range cfg.Bands {
		if !genderMatches(band.Gender, comp.Gender) {
			continue
		}
		if totalEarning < band.MinLimit || totalEarning > band.MaxLimit {
			continue
		}
		return band.Rates[int(month)-1]
	}
	return 0
}

func genderMatches(bandGender, employeeGender string) bool {
	return strings.EqualFold(bandGender, genderAll) ||
		strings.EqualFold(bandGender, employeeGender)
}

// ProratedTDS scales the HR-declared TDS by pay days. Used by the
// payslip and annual report paths.
func ProratedTDS(declared float64, totalDays int, payDays float64) float64 {
	return declared / float64(totalDays) * payDays
}

// FlatTDS passes the declared TDS through untouched. Used by the bank
// challan export.
func FlatTDS(declared float64) float64 {
	return declared
}

// Compute runs the proration and statutory-deduction stages over an
// attendance summary and assembles the net pay.
func Compute(
	comp CompensationConfig,
	slab TaxSlabConfig,
	p Period,
	summary AttendanceSummary,
	declaredTDS float64,
	tdsMode TDSMode,
) PayrollResult {
	totalDays := p.TotalDays()

	earnings := ComputeEarnings(comp, totalDays, summary.PayDays)

	var incomeTax float64
	switch tdsMode {
	case TDSFlat:
		incomeTax = FlatTDS(declaredTDS)
	default:
		incomeTax = ProratedTDS(declaredTDS, totalDays, summary.PayDays)
	}

	d := Deductions{
		PFContribution:  ComputePF(comp, totalDays, summary.PayDays),
		ESIEarned:       ComputeESI(comp, totalDays, summary.PayDays),
		ProfessionalTax: LookupProfessionalTax(slab, comp, earnings.TotalEarning, time.Month(p.Month)),
		IncomeTax:       incomeTax,
	}
	d.TotalDeduction = math.Round(d.PFContribution + d.ProfessionalTax + d.IncomeTax + d.ESIEarned)

	return PayrollResult{
		EmpCode:   comp.EmpCode,
		Period:    p,
		TotalDays: totalDays,
		Summary:   summary,
		Earnings:  earnings,
		Deduction: d,
		NetPay:    math.Round(earnings.TotalEarning - d.TotalDeduction),
	}
}
