package settings

import "time"

type UpdateSettingsRequest struct {
	WeeklyHolidayEnabled *bool `json:"weekly_holiday_enabled" binding:"required"`
}

type SettingsResponse struct {
	WeeklyHolidayEnabled bool      `json:"weekly_holiday_enabled"`
	UpdatedAt            time.Time `json:"updated_at"`
}
