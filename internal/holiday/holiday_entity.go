package holiday

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday is a declared non-working date. Dates are stored at midnight UTC so
// the unique index catches duplicates regardless of the submitted time of day.
type Holiday struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Date      time.Time      `gorm:"type:date;not null;uniqueIndex:idx_holidays_date" json:"date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Holiday) TableName() string {
	return "holidays"
}
