package events

import "time"

const PayrollPayslipGeneratedTopic = "hrms.payroll.payslip.generated.v1"

type PayrollPayslipGeneratedEvent struct {
	EventType  string    `json:"event_type"`
	PayrollID  string    `json:"payroll_id"`
	EmpCode    string    `json:"emp_code"`
	CompanyID  string    `json:"company_id"`
	Period     string    `json:"period"`
	OccurredAt time.Time `json:"occurred_at"`
}
