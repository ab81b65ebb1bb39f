package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// IsTerminal reports whether a status permits no further transition.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// LeaveRequest is append-only history: rows are created by apply and mutated
// only by approve, reject and cancel, never deleted.
//
// DaysCalculated is fixed at submission time. Later holiday or settings
// changes do not recompute it.
type LeaveRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_employee_status" json:"employee_id"`
	StartDate       time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time  `gorm:"type:date;not null" json:"end_date"`
	LeaveType       string     `gorm:"type:varchar(20);not null" json:"leave_type"`
	Reason          string     `gorm:"type:text" json:"reason"`
	DaysCalculated  int        `gorm:"not null" json:"days_calculated"`
	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_employee_status" json:"status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
