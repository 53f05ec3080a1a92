package employee

type CreateEmployeeRequest struct {
	FullName              string `json:"full_name" binding:"required"`
	Email                 string `json:"email" binding:"required,email"`
	Gender                string `json:"gender" binding:"required,oneof=Male Female male female"`
	PayGroup              string `json:"pay_group"`
	BasicMonthly          string `json:"basic_monthly"`
	HRAMonthly            string `json:"hra_monthly"`
	OtherAllowanceMonthly string `json:"other_allowance_monthly"`
	PFMonthlyContribution string `json:"pf_monthly_contribution"`
	ESICMonthly           string `json:"esic_monthly"`
}

type UpdateEmployeeRequest struct {
	FullName              string `json:"full_name" binding:"required"`
	Email                 string `json:"email" binding:"required,email"`
	Gender                string `json:"gender" binding:"required,oneof=Male Female male female"`
	PayGroup              string `json:"pay_group"`
	BasicMonthly          string `json:"basic_monthly"`
	HRAMonthly            string `json:"hra_monthly"`
	OtherAllowanceMonthly string `json:"other_allowance_monthly"`
	PFMonthlyContribution string `json:"pf_monthly_contribution"`
	ESICMonthly           string `json:"esic_monthly"`
	IsActive              *bool  `json:"is_active"`
}

type EmployeeResponse struct {
	ID                    string `json:"id"`
	CompanyID             string `json:"company_id"`
	EmpCode               string `json:"emp_code"`
	FullName              string `json:"full_name"`
	Email                 string `json:"email"`
	Gender                string `json:"gender"`
	PayGroup              string `json:"pay_group,omitempty"`
	BasicMonthly          string `json:"basic_monthly,omitempty"`
	HRAMonthly            string `json:"hra_monthly,omitempty"`
	OtherAllowanceMonthly string `json:"other_allowance_monthly,omitempty"`
	PFMonthlyContribution string `json:"pf_monthly_contribution,omitempty"`
	ESICMonthly           string `json:"esic_monthly,omitempty"`
	IsActive              bool   `json:"is_active"`
}

// EmployeeOption is the slim shape cached for dropdowns.
type EmployeeOption struct {
	ID       string `json:"id"`
	EmpCode  string `json:"emp_code"`
	FullName string `json:"full_name"`
}
