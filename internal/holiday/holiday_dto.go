package holiday

type CreateHolidayRequest struct {
	Name      string `json:"name" binding:"required"`
	EventDate string `json:"event_date" binding:"required"`
}

type HolidayResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	EventDate string `json:"event_date"`
}
