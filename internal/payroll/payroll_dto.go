package payroll

type ProcessAttendanceRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
	// Empty means every active employee of the company.
	EmployeeCodes []string `json:"employee_codes"`
}

// MarkPaidRequest carries the disbursement timestamp from the payment
// system. Accepts RFC3339 or a bare YYYY-MM-DD date.
type MarkPaidRequest struct {
	PaidAt string `json:"paid_at"`
}

type GetRunsFilterRequest struct {
	Year   int    `form:"year"`
	Month  int    `form:"month"`
	Status string `form:"status" binding:"omitempty,oneof=DRAFT APPROVED PAID"`
}

// DayCounts is the attendance reduction as shown in responses; the
// fractional counts are rounded to one decimal for display only.
type DayCounts struct {
	TotalDays     int     `json:"total_days"`
	PresentDays   float64 `json:"present_days"`
	AbsentDays    float64 `json:"absent_days"`
	HalfDays      float64 `json:"half_days"`
	PaidLeaveDays float64 `json:"paid_leave_days"`
	SickLeaveDays float64 `json:"sick_leave_days"`
	PayDays       float64 `json:"pay_days"`
	LOPDays       float64 `json:"lop_days"`
}

type EarningsResponse struct {
	BasicEarned  float64 `json:"basic_earned"`
	HRAEarned    float64 `json:"hra_earned"`
	OtherEarned  float64 `json:"other_earned"`
	TotalEarning float64 `json:"total_earning"`
}

type DeductionsResponse struct {
	PFContribution  float64 `json:"pf_contribution"`
	ESIEarned       float64 `json:"esi_earned"`
	ProfessionalTax float64 `json:"professional_tax"`
	IncomeTax       float64 `json:"income_tax"`
	TotalDeduction  float64 `json:"total_deduction"`
}

type PayrollRunResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
	EmpCode    string `json:"emp_code"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`

	Days       DayCounts          `json:"days"`
	Earnings   EarningsResponse   `json:"earnings"`
	Deductions DeductionsResponse `json:"deductions"`
	NetPay     float64            `json:"net_pay"`

	Status             string  `json:"status"`
	CreatedBy          string  `json:"created_by"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	PaidAt             *string `json:"paid_at,omitempty"`
	PayslipGeneratedAt *string `json:"payslip_generated_at,omitempty"`
}

type ProcessAttendanceResponse struct {
	Period    string               `json:"period"`
	Succeeded []PayrollRunResponse `json:"succeeded"`
	Failed    []EmployeeError      `json:"failed"`
}

type PayslipResponse struct {
	EmpCode       string             `json:"emp_code"`
	FullName      string             `json:"full_name"`
	Period        string             `json:"period"`
	Days          DayCounts          `json:"days"`
	Earnings      EarningsResponse   `json:"earnings"`
	Deductions    DeductionsResponse `json:"deductions"`
	NetPay        float64            `json:"net_pay"`
	NetPayInWords string             `json:"net_pay_in_words"`
}

type AnnualReportMonth struct {
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	Days       DayCounts          `json:"days"`
	Earnings   EarningsResponse   `json:"earnings"`
	Deductions DeductionsResponse `json:"deductions"`
	NetPay     float64            `json:"net_pay"`
}

// AnnualReportResponse covers one fiscal year, April through March.
type AnnualReportResponse struct {
	EmpCode        string              `json:"emp_code"`
	FiscalYear     int                 `json:"fiscal_year"`
	Months         []AnnualReportMonth `json:"months"`
	TotalEarning   float64             `json:"total_earning"`
	TotalDeduction float64             `json:"total_deduction"`
	TotalNetPay    float64             `json:"total_net_pay"`
}
