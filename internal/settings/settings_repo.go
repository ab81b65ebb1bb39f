package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Get returns the settings row, creating it with defaults on first use.
	Get(ctx context.Context) (*Setting, error)
	Update(ctx context.Context, s *Setting) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*Setting, error) {
	var s Setting
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s = Setting{ID: uuid.New(), WeeklyHolidayEnabled: true}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Setting) error {
	return r.db.WithContext(ctx).Save(s).Error
}
