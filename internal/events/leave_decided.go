package events

import "time"

const LeaveDecidedTopic = "hr.leave.decision.v1"

// LeaveDecidedEvent is emitted when a manager approves or rejects a request.
// Written to the outbox inside the deciding transaction, delivered by the
// worker.
type LeaveDecidedEvent struct {
	LeaveRequestID  string    `json:"leave_request_id"`
	EmployeeID      string    `json:"employee_id"`
	ApproverID      string    `json:"approver_id"`
	LeaveType       string    `json:"leave_type"`
	Status          string    `json:"status"`
	WorkingDays     int       `json:"working_days"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	DecidedAt       time.Time `json:"decided_at"`
}
