package employee

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// BalanceDeltas is an additive adjustment applied to every employee. Deltas
// may be negative; no floor is applied here. Only the debit path floors at 0,
// and it does so by refusing to go below it.
type BalanceDeltas struct {
	Sick     int
	Casual   int
	Vacation int
}

// Balances is an absolute override. Nil fields are left untouched.
type Balances struct {
	Sick     *int
	Casual   *int
	Vacation *int
}

type DashboardStats struct {
	TotalEmployees   int64
	TotalRequests    int64
	PendingRequests  int64
	ApprovedRequests int64
	RejectedRequests int64
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context, search string, page, pageSize int) ([]Employee, int64, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	ListOptions(ctx context.Context) ([]Employee, error)

	// DebitBalance subtracts days from the employee's balance for the given
	// leave type in a single guarded UPDATE. It reports false (and makes no
	// change) when the remaining balance is smaller than days, so the balance
	// can never be driven negative even under concurrent approvals.
	DebitBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error)

	AccrueAll(ctx context.Context, deltas BalanceDeltas) (int64, error)
	SetBalances(ctx context.Context, id uuid.UUID, b Balances) error
	Stats(ctx context.Context) (DashboardStats, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if isUniqueViolation(err) {
		return gorm.ErrDuplicatedKey
	}
	return err
}

func (r *repository) FindAll(ctx context.Context, search string, page, pageSize int) ([]Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&Employee{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"full_name ILIKE ? OR email ILIKE ? OR department ILIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []Employee
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&employees).Error
	return employees, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "email = ?", email).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	err := r.db.WithContext(ctx).Save(e).Error
	if isUniqueViolation(err) {
		return gorm.ErrDuplicatedKey
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) ListOptions(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Select("id", "full_name", "role").
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) DebitBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
	col, ok := BalanceColumn(leaveType)
	if !ok {
		return false, gorm.ErrInvalidField
	}

	// Check and subtract in one statement. The WHERE guard makes the
	// stale-read race between two concurrent approvals harmless: the second
	// one simply matches zero rows.
	res := r.db.WithContext(ctx).Model(&Employee{}).
		Where("id = ? AND "+col+" >= ?", id, days).
		UpdateColumn(col, gorm.Expr(col+" - ?", days))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) AccrueAll(ctx context.Context, deltas BalanceDeltas) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Employee{}).
		Where("1 = 1").
		UpdateColumns(map[string]interface{}{
			"sick_balance":     gorm.Expr("sick_balance + ?", deltas.Sick),
			"casual_balance":   gorm.Expr("casual_balance + ?", deltas.Casual),
			"vacation_balance": gorm.Expr("vacation_balance + ?", deltas.Vacation),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) SetBalances(ctx context.Context, id uuid.UUID, b Balances) error {
	updates := map[string]interface{}{}
	if b.Sick != nil {
		updates["sick_balance"] = *b.Sick
	}
	if b.Casual != nil {
		updates["casual_balance"] = *b.Casual
	}
	if b.Vacation != nil {
		updates["vacation_balance"] = *b.Vacation
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&Employee{}).
		Where("id = ?", id).
		UpdateColumns(updates).Error
}

func (r *repository) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.WithContext(ctx).Model(&Employee{}).Count(&stats.TotalEmployees).Error; err != nil {
		return stats, err
	}

	counts := []struct {
		target *int64
		where  string
		args   []interface{}
	}{
		{&stats.TotalRequests, "", nil},
		{&stats.PendingRequests, "status = ?", []interface{}{"PENDING"}},
		{&stats.ApprovedRequests, "status = ?", []interface{}{"APPROVED"}},
		{&stats.RejectedRequests, "status = ?", []interface{}{"REJECTED"}},
	}
	for _, c := range counts {
		q := r.db.WithContext(ctx).Table("leave_requests")
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.target).Error; err != nil {
			return stats, err
		}
	}

	return stats, nil
}
