package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardComp() CompensationConfig {
	return CompensationConfig{
		EmpCode:               "EMP001",
		BasicMonthly:          30000,
		HRAMonthly:            15000,
		OtherAllowanceMonthly: 5000,
		PFMonthlyContribution: 1800,
		Gender:                "Male",
		PayGroup:              "Regular",
	}
}

func standardSlab() TaxSlabConfig {
	rates := [12]float64{}
	for i := range rates {
		rates[i] = 200
	}
	return TaxSlabConfig{
		Bands: []SlabBand{
			{Gender: "All", MinLimit: 25000, MaxLimit: 1e9, Rates: rates},
		},
	}
}

func fullPaySummary(p Period) AttendanceSummary {
	return AttendanceSummary{
		PresentDays: float64(p.TotalDays()),
		PayDays:     float64(p.TotalDays()),
	}
}

func TestCompute_StandardFullMonth(t *testing.T) {
	p, err := NewPeriod(2024, 4)
	require.NoError(t, err)

	result := Compute(standardComp(), standardSlab(), p, fullPaySummary(p), 0, TDSProrated)

	assert.Equal(t, 30000.0, result.Earnings.BasicEarned)
	assert.Equal(t, 15000.0, result.Earnings.HRAEarned)
	assert.Equal(t, 5000.0, result.Earnings.OtherEarned)
	assert.Equal(t, 50000.0, result.Earnings.TotalEarning)
	assert.Equal(t, 1800.0, result.Deduction.PFContribution)
	assert.Equal(t, 200.0, result.Deduction.ProfessionalTax)
	assert.Equal(t, 2000.0, result.Deduction.TotalDeduction)
	assert.Equal(t, 48000.0, result.NetPay)
}

func TestCompute_HalfMonth(t *testing.T) {
	p, err := NewPeriod(2024, 4)
	require.NoError(t, err)

	summary := AttendanceSummary{PayDays: 15}
	result := Compute(standardComp(), standardSlab(), p, summary, 0, TDSProrated)

	assert.Equal(t, 15000.0, result.Earnings.BasicEarned)
	assert.Equal(t, 25000.0, result.Earnings.TotalEarning)
	// 12% of 15000 is below the cap.
	assert.Equal(t, 1800.0, result.Deduction.PFContribution)
	// Band limits are inclusive, so 25000 sits in the 25000+ band.
	assert.Equal(t, 200.0, result.Deduction.ProfessionalTax)
}

func TestProrate_DivideBeforeMultiply(t *testing.T) {
	// 10000/30*7 = 2333.33 -> 2333. Multiplying first would overflow
	// differently on fractional day counts.
	assert.Equal(t, 2333.0, Prorate(10000, 30, 7))
	assert.Equal(t, 5000.0, Prorate(10000, 30, 15))
	assert.Equal(t, 0.0, Prorate(10000, 30, 0))
}

func TestComputePF(t *testing.T) {
	comp := standardComp()

	t.Run("capped at 1800", func(t *testing.T) {
		assert.Equal(t, 1800.0, ComputePF(comp, 30, 30))
	})

	t.Run("12 percent below cap", func(t *testing.T) {
		low := comp
		low.BasicMonthly = 10000
		assert.Equal(t, 1200.0, ComputePF(low, 30, 30))
	})

	t.Run("opted out when no recorded contribution", func(t *testing.T) {
		out := comp
		out.PFMonthlyContribution = 0
		assert.Equal(t, 0.0, ComputePF(out, 30, 30))
	})
}

func TestComputeESI(t *testing.T) {
	comp := standardComp()
	comp.ESICMonthly = 600

	assert.Equal(t, 600.0, ComputeESI(comp, 30, 30))
	assert.Equal(t, 300.0, ComputeESI(comp, 30, 15))
}

func TestLookupProfessionalTax_FirstMatchWins(t *testing.T) {
	first := [12]float64{}
	second := [12]float64{}
	for i := range first {
		first[i] = 150
		second[i] = 300
	}
	cfg := TaxSlabConfig{
		Bands: []SlabBand{
			{Gender: "All", MinLimit: 0, MaxLimit: 100000, Rates: first},
			{Gender: "All", MinLimit: 0, MaxLimit: 100000, Rates: second},
		},
	}

	tax := LookupProfessionalTax(cfg, standardComp(), 50000, time.April)
	assert.Equal(t, 150.0, tax)
}

func TestLookupProfessionalTax_GenderBands(t *testing.T) {
	femaleRates := [12]float64{}
	allRates := [12]float64{}
	for i := range allRates {
		femaleRates[i] = 0
		allRates[i] = 200
	}
	cfg := TaxSlabConfig{
		Bands: []SlabBand{
			{Gender: "Female", MinLimit: 0, MaxLimit: 100000, Rates: femaleRates},
			{Gender: "All", MinLimit: 0, MaxLimit: 100000, Rates: allRates},
		},
	}

	male := standardComp()
	assert.Equal(t, 200.0, LookupProfessionalTax(cfg, male, 50000, time.April))

	female := standardComp()
	female.Gender = "Female"
	assert.Equal(t, 0.0, LookupProfessionalTax(cfg, female, 50000, time.April))
}

func TestLookupProfessionalTax_FemaleInternExempt(t *testing.T) {
	comp := standardComp()
	comp.Gender = "Female"
	comp.PayGroup = "Intern"

	assert.Equal(t, 0.0, LookupProfessionalTax(standardSlab(), comp, 50000, time.April))
}

func TestLookupProfessionalTax_MonthlyRates(t *testing.T) {
	// February carries a different rate than the rest of the year, the
	// usual shape of Indian PT schedules.
	rates := [12]float64{}
	for i := range rates {
		rates[i] = 200
	}
	rates[int(time.February)-1] = 300

	cfg := TaxSlabConfig{
		Bands: []SlabBand{{Gender: "All", MinLimit: 0, MaxLimit: 100000, Rates: rates}},
	}

	assert.Equal(t, 300.0, LookupProfessionalTax(cfg, standardComp(), 50000, time.February))
	assert.Equal(t, 200.0, LookupProfessionalTax(cfg, standardComp(), 50000, time.March))
}

func TestLookupProfessionalTax_NoMatchingBand(t *testing.T) {
	tax := LookupProfessionalTax(standardSlab(), standardComp(), 10000, time.April)
	assert.Equal(t, 0.0, tax)
}

func TestCompute_TDSModes(t *testing.T) {
	p, err := NewPeriod(2024, 4)
	require.NoError(t, err)

	summary := AttendanceSummary{PayDays: 15}

	prorated := Compute(standardComp(), TaxSlabConfig{}, p, summary, 3000, TDSProrated)
	assert.Equal(t, 1500.0, prorated.Deduction.IncomeTax)

	flat := Compute(standardComp(), TaxSlabConfig{}, p, summary, 3000, TDSFlat)
	assert.Equal(t, 3000.0, flat.Deduction.IncomeTax)
}

func TestCompute_ZeroPayDays(t *testing.T) {
	p, err := NewPeriod(2024, 4)
	require.NoError(t, err)

	result := Compute(standardComp(), standardSlab(), p, AttendanceSummary{PayDays: 0}, 2000, TDSProrated)

	assert.Equal(t, 0.0, result.Earnings.TotalEarning)
	assert.Equal(t, 0.0, result.Deduction.PFContribution)
	assert.Equal(t, 0.0, result.Deduction.IncomeTax)
	assert.Equal(t, 0.0, result.NetPay)
}
