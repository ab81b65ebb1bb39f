package holiday

import "time"

type CreateHolidayRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

type UpdateHolidayRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=255"`
	Date *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type HolidayResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
