package attendance

type ClockInRequest struct {
	Source string  `json:"source"`
	Notes  *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

// UpsertStatusRequest lets HR correct or backfill a day's status with
// free text ("Half-day", "Week Off", ...). The payroll classifier
// treats anything it does not recognize as a non-deducting day.
type UpsertStatusRequest struct {
	EmployeeID     string  `json:"employee_id" binding:"required,uuid"`
	AttendanceDate string  `json:"attendance_date" binding:"required"`
	Status         string  `json:"status" binding:"required"`
	Notes          *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        *string `json:"clock_in,omitempty"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	Notes          *string `json:"notes,omitempty"`
}
