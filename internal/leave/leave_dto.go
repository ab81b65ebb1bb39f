package leave

import "time"

type ApplyLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	LeaveType string `json:"leave_type" binding:"required,oneof=SICK CASUAL VACATION"`
	Reason    string `json:"reason" binding:"omitempty,max=1000"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required,min=3,max=1000"`
}

type LeaveResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name,omitempty"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	LeaveType       string    `json:"leave_type"`
	Reason          string    `json:"reason,omitempty"`
	DaysCalculated  int       `json:"days_calculated"`
	Status          string    `json:"status"`
	ApprovedBy      string    `json:"approved_by,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	// Warnings carries advisory team-overlap notes for approvers. Never
	// blocks a decision.
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
