package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

// Leave types form a closed set; every balance column maps to exactly one.
const (
	LeaveTypeSick     = "SICK"
	LeaveTypeCasual   = "CASUAL"
	LeaveTypeVacation = "VACATION"
)

// Default annual allotments applied when an employee is created.
const (
	DefaultSickDays     = 10
	DefaultCasualDays   = 12
	DefaultVacationDays = 20
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"type:varchar(20);uniqueIndex"`
	FullName       string    `gorm:"type:varchar(120);not null"`
	Email          string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash   string    `gorm:"type:varchar(120);not null"`
	Role           string    `gorm:"type:varchar(20);not null;default:'EMPLOYEE';index"`
	Department     string    `gorm:"type:varchar(80)"`

	// ManagerID points at the employee who approves this employee's leave.
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`

	// Remaining entitlement per leave type. Never allowed to go negative:
	// the only subtraction path is the guarded debit in the repository.
	SickBalance     int `gorm:"not null;default:10"`
	CasualBalance   int `gorm:"not null;default:12"`
	VacationBalance int `gorm:"not null;default:20"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ValidLeaveType reports whether t belongs to the closed leave-type set.
func ValidLeaveType(t string) bool {
	switch t {
	case LeaveTypeSick, LeaveTypeCasual, LeaveTypeVacation:
		return true
	}
	return false
}

// BalanceColumn maps a leave type to its balance column.
func BalanceColumn(leaveType string) (string, bool) {
	switch leaveType {
	case LeaveTypeSick:
		return "sick_balance", true
	case LeaveTypeCasual:
		return "casual_balance", true
	case LeaveTypeVacation:
		return "vacation_balance", true
	}
	return "", false
}

// BalanceFor returns the remaining days for the given leave type.
func (e *Employee) BalanceFor(leaveType string) int {
	switch leaveType {
	case LeaveTypeSick:
		return e.SickBalance
	case LeaveTypeCasual:
		return e.CasualBalance
	case LeaveTypeVacation:
		return e.VacationBalance
	}
	return 0
}
