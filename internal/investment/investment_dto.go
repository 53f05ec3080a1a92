package investment

type DeclareTDSRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,uuid"`
	TDSThisMonth string `json:"tds_this_month"`
}

type DeclarationResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	TDSThisMonth string `json:"tds_this_month"`
}
