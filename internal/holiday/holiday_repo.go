package holiday

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, h *Holiday) error
	FindAll(ctx context.Context, year int) ([]Holiday, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Holiday, error)
	Update(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id uuid.UUID) error
	DatesBetween(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		if isUniqueViolation(err) {
			return gorm.ErrDuplicatedKey
		}
		return err
	}
	return nil
}

func (r *repository) FindAll(ctx context.Context, year int) ([]Holiday, error) {
	var holidays []Holiday
	q := r.db.WithContext(ctx).Order("date ASC")
	if year > 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		q = q.Where("date >= ? AND date < ?", from, to)
	}
	if err := q.Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Holiday, error) {
	var h Holiday
	if err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repository) Update(ctx context.Context, h *Holiday) error {
	if err := r.db.WithContext(ctx).Save(h).Error; err != nil {
		if isUniqueViolation(err) {
			return gorm.ErrDuplicatedKey
		}
		return err
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Holiday{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DatesBetween returns declared holiday dates inside the inclusive range,
// used by the working-day calculation.
func (r *repository) DatesBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}
