package leave

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrRangeConflict is returned by Create when the database-level exclusion
// constraint rejects an overlapping active request. It closes the window
// between the overlap pre-check and the insert.
var ErrRangeConflict = errors.New("leave range conflicts with an active request")

// TeamOverlap is an approved request of a teammate that intersects the range
// under review. Advisory only.
type TeamOverlap struct {
	EmployeeName string
	StartDate    time.Time
	EndDate      time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID uuid.UUID, page, pageSize int) ([]LeaveRequest, int64, error)
	FindByStatusForApprover(ctx context.Context, status string, approverID uuid.UUID, allTeams bool, page, pageSize int) ([]LeaveRequest, int64, error)
	HasActiveOverlap(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error)
	TeamApprovedOverlaps(ctx context.Context, managerID, excludeEmployeeID uuid.UUID, start, end time.Time) ([]TeamOverlap, error)
	// MarkDecided transitions a pending request to APPROVED or REJECTED.
	// Returns false when the row was not pending anymore.
	MarkDecided(ctx context.Context, id uuid.UUID, status string, approvedBy uuid.UUID, rejectionReason string) (bool, error)
	// MarkCancelled transitions a pending request to CANCELLED. Returns
	// false when the row was not pending anymore.
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
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

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505")
}

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if isExclusionViolation(err) {
			return ErrRangeConflict
		}
		return err
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var req LeaveRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID uuid.UUID, page, pageSize int) ([]LeaveRequest, int64, error) {
	var (
		requests []LeaveRequest
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&LeaveRequest{}).Where("employee_id = ?", employeeID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// FindByStatusForApprover lists requests in the given status for the
// approver's direct reports. With allTeams true (admin) the manager filter is
// dropped.
func (r *repository) FindByStatusForApprover(ctx context.Context, status string, approverID uuid.UUID, allTeams bool, page, pageSize int) ([]LeaveRequest, int64, error) {
	var (
		requests []LeaveRequest
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("leave_requests.status = ?", status).
		Where("employees.deleted_at IS NULL")
	if !allTeams {
		q = q.Where("employees.manager_id = ?", approverID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("leave_requests.created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// HasActiveOverlap checks the inclusive interval intersection against the
// employee's pending and approved requests.
func (r *repository) HasActiveOverlap(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) TeamApprovedOverlaps(ctx context.Context, managerID, excludeEmployeeID uuid.UUID, start, end time.Time) ([]TeamOverlap, error) {
	var overlaps []TeamOverlap
	err := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Select("employees.full_name AS employee_name, leave_requests.start_date, leave_requests.end_date").
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.manager_id = ?", managerID).
		Where("leave_requests.employee_id <> ?", excludeEmployeeID).
		Where("leave_requests.status = ?", StatusApproved).
		Where("leave_requests.start_date <= ? AND leave_requests.end_date >= ?", end, start).
		Scan(&overlaps).Error
	if err != nil {
		return nil, err
	}
	return overlaps, nil
}

func (r *repository) MarkDecided(ctx context.Context, id uuid.UUID, status string, approvedBy uuid.UUID, rejectionReason string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":           status,
			"approved_by":      approvedBy,
			"rejection_reason": rejectionReason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
