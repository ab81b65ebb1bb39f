package settings

import (
	"time"

	"github.com/google/uuid"
)

// Setting is a single-row table. WeeklyHolidayEnabled toggles whether the
// designated weekly holiday counts against requested leave days.
type Setting struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WeeklyHolidayEnabled bool      `gorm:"not null;default:true" json:"weekly_holiday_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
