package auth

import (
	"context"

	"go-leave/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads accounts from the employees table. Authentication has no
// tables of its own.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*employee.Employee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	var e employee.Employee
	if err := r.db.WithContext(ctx).First(&e, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	var e employee.Employee
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
