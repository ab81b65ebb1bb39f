package leave

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/clock"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/workingday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Calendar span cap for a single request: end minus start may not exceed
// this many calendar days. Checked on calendar days, not working days.
const maxSpanDays = 30

// HolidaySource supplies declared holiday dates inside a range.
type HolidaySource interface {
	DatesBetween(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

// SettingsSource supplies the weekly-holiday toggle. Read on every apply so
// an admin change takes effect for the next submission, never cached here.
type SettingsSource interface {
	WeeklyHolidayEnabled(ctx context.Context) (bool, error)
}

type Service interface {
	Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (*LeaveResponse, error)
	GetByID(ctx context.Context, actorID, role, id string) (*LeaveResponse, error)
	MyRequests(ctx context.Context, employeeID string, page, pageSize int) ([]LeaveResponse, int64, error)
	PendingForApprover(ctx context.Context, approverID, role string, page, pageSize int) ([]LeaveResponse, int64, error)
	ApprovedForApprover(ctx context.Context, approverID, role string, page, pageSize int) ([]LeaveResponse, int64, error)
	Approve(ctx context.Context, id, approverID, role string) (*LeaveResponse, error)
	Reject(ctx context.Context, id, approverID, role string, req RejectLeaveRequest) (*LeaveResponse, error)
	Cancel(ctx context.Context, id, requesterID string) (*LeaveResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	employees employee.Repository
	holidays  HolidaySource
	settings  SettingsSource
	outbox    kafka.OutboxRepository
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employees employee.Repository,
	holidays HolidaySource,
	settings SettingsSource,
	outbox kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		holidays:  holidays,
		settings:  settings,
		outbox:    outbox,
		clock:     clk,
		logger:    l,
	}
}

func insufficientBalance(leaveType string, balance, requested int) error {
	return leaveerrors.ErrInsufficientBalance.WithMessage(
		"Insufficient %s balance: %d day(s) remaining, %d requested",
		leaveType, balance, requested,
	)
}

func (s *service) Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (*LeaveResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperror.InvalidField("start_date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperror.InvalidField("end_date")
	}
	start = workingday.DateOnly(start)
	end = workingday.DateOnly(end)

	if !employee.ValidLeaveType(req.LeaveType) {
		return nil, apperror.InvalidField("leave_type")
	}
	if end.Before(start) {
		return nil, leaveerrors.ErrInvalidDateRange
	}
	if start.Before(workingday.DateOnly(s.clock.Now())) {
		return nil, leaveerrors.ErrBackdatedStart
	}
	// SpanDays is inclusive, so subtract one for the end-minus-start
	// difference the cap is defined over.
	if workingday.SpanDays(start, end)-1 > maxSpanDays {
		return nil, leaveerrors.ErrSpanTooLong
	}

	holidays, err := s.holidays.DatesBetween(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to load holidays", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	weeklyEnabled, err := s.settings.WeeklyHolidayEnabled(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	days := workingday.Count(start, end, holidays, weeklyEnabled, workingday.DefaultWeeklyHoliday)
	if days == 0 {
		return nil, leaveerrors.ErrNoWorkingDays
	}

	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		s.logger.Error("failed to load employee", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	if balance := emp.BalanceFor(req.LeaveType); balance < days {
		return nil, insufficientBalance(req.LeaveType, balance, days)
	}

	overlaps, err := s.repo.HasActiveOverlap(ctx, empID, start, end)
	if err != nil {
		s.logger.Error("failed to check overlaps", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	if overlaps {
		return nil, leaveerrors.ErrOverlappingRequest
	}

	request := &LeaveRequest{
		ID:             uuid.New(),
		EmployeeID:     empID,
		StartDate:      start,
		EndDate:        end,
		LeaveType:      req.LeaveType,
		Reason:         req.Reason,
		DaysCalculated: days,
		Status:         StatusPending,
	}

	// The exclusion constraint backs up the pre-check under concurrent
	// submissions.
	if err := s.repo.Create(ctx, request); err != nil {
		if errors.Is(err, ErrRangeConflict) {
			return nil, leaveerrors.ErrOverlappingRequest
		}
		s.logger.Error("failed to create leave request", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	s.logger.Info("leave request submitted",
		zap.String("leave_id", request.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("days", days),
	)

	return mapToResponse(request, ""), nil
}

func (s *service) GetByID(ctx context.Context, actorID, role, id string) (*LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	request, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load leave request", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	if request.EmployeeID.String() != actorID {
		if _, err := s.requireApprover(ctx, request, actorID, role); err != nil {
			return nil, err
		}
	}

	return mapToResponse(request, ""), nil
}

func (s *service) MyRequests(ctx context.Context, employeeID string, page, pageSize int) ([]LeaveResponse, int64, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, 0, apperror.ErrUnauthorized
	}

	requests, total, err := s.repo.FindAllByEmployee(ctx, empID, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list leave requests", zap.Error(err))
		return nil, 0, apperror.ErrInternal
	}

	return mapAll(requests), total, nil
}

func (s *service) PendingForApprover(ctx context.Context, approverID, role string, page, pageSize int) ([]LeaveResponse, int64, error) {
	return s.listForApprover(ctx, StatusPending, approverID, role, page, pageSize, true)
}

func (s *service) ApprovedForApprover(ctx context.Context, approverID, role string, page, pageSize int) ([]LeaveResponse, int64, error) {
	return s.listForApprover(ctx, StatusApproved, approverID, role, page, pageSize, false)
}

func (s *service) listForApprover(ctx context.Context, status, approverID, role string, page, pageSize int, withWarnings bool) ([]LeaveResponse, int64, error) {
	appID, err := uuid.Parse(approverID)
	if err != nil {
		return nil, 0, apperror.ErrUnauthorized
	}

	requests, total, err := s.repo.FindByStatusForApprover(ctx, status, appID, role == employee.RoleAdmin, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list requests for approver", zap.Error(err))
		return nil, 0, apperror.ErrInternal
	}

	responses := mapAll(requests)
	if withWarnings {
		for i := range requests {
			responses[i].Warnings = s.teamWarnings(ctx, &requests[i])
		}
	}
	return responses, total, nil
}

// teamWarnings surfaces approved teammate leave intersecting the request
// under review. Best effort, a lookup failure only drops the warning.
func (s *service) teamWarnings(ctx context.Context, request *LeaveRequest) []string {
	emp, err := s.employees.FindByID(ctx, request.EmployeeID.String())
	if err != nil || emp.ManagerID == nil {
		return nil
	}

	overlaps, err := s.repo.TeamApprovedOverlaps(ctx, *emp.ManagerID, request.EmployeeID, request.StartDate, request.EndDate)
	if err != nil {
		s.logger.Warn("failed to load team overlaps", zap.Error(err))
		return nil
	}

	warnings := make([]string, 0, len(overlaps))
	for _, o := range overlaps {
		warnings = append(warnings, o.EmployeeName+" has approved leave from "+
			o.StartDate.Format("2006-01-02")+" to "+o.EndDate.Format("2006-01-02"))
	}
	return warnings
}

// requireApprover enforces the decision rule as domain logic: an admin, or
// the direct manager of the request's employee. Returns the employee row for
// reuse.
func (s *service) requireApprover(ctx context.Context, request *LeaveRequest, approverID, role string) (*employee.Employee, error) {
	emp, err := s.employees.FindByID(ctx, request.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load employee", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	if role == employee.RoleAdmin {
		return emp, nil
	}
	if emp.ManagerID != nil && emp.ManagerID.String() == approverID {
		return emp, nil
	}
	return nil, leaveerrors.ErrNotTeamManager
}

func (s *service) Approve(ctx context.Context, id, approverID, role string) (*LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	appID, err := uuid.Parse(approverID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	request, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load leave request", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	if request.Status != StatusPending {
		return nil, leaveerrors.ErrAlreadyProcessed
	}

	emp, err := s.requireApprover(ctx, request, approverID, role)
	if err != nil {
		return nil, err
	}

	// Debit and transition commit together or not at all. The guarded
	// UPDATE re-checks the balance at commit time; the conditional status
	// update closes the double-approve race.
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debited, err := s.employees.WithTx(tx).DebitBalance(ctx, request.EmployeeID, request.LeaveType, request.DaysCalculated)
		if err != nil {
			return err
		}
		if !debited {
			// Re-read inside the tx so the reported balance reflects any
			// debit that landed after the pre-check.
			balance := emp.BalanceFor(request.LeaveType)
			if fresh, err := s.employees.WithTx(tx).FindByID(ctx, request.EmployeeID.String()); err == nil {
				balance = fresh.BalanceFor(request.LeaveType)
			}
			return insufficientBalance(request.LeaveType, balance, request.DaysCalculated)
		}

		decided, err := s.repo.WithTx(tx).MarkDecided(ctx, leaveID, StatusApproved, appID, "")
		if err != nil {
			return err
		}
		if !decided {
			return leaveerrors.ErrAlreadyProcessed
		}

		return s.enqueueDecision(ctx, tx, request, appID, StatusApproved, "")
	})
	if txErr != nil {
		var appErr *apperror.AppError
		if errors.As(txErr, &appErr) {
			return nil, txErr
		}
		s.logger.Error("approve transaction failed", zap.Error(txErr))
		return nil, apperror.ErrInternal
	}

	request.Status = StatusApproved
	request.ApprovedBy = &appID

	s.logger.Info("leave request approved",
		zap.String("leave_id", id),
		zap.String("approver_id", approverID),
		zap.Int("days_debited", request.DaysCalculated),
	)

	return mapToResponse(request, emp.FullName), nil
}

func (s *service) Reject(ctx context.Context, id, approverID, role string, req RejectLeaveRequest) (*LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	appID, err := uuid.Parse(approverID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if req.RejectionReason == "" {
		return nil, apperror.RequiredField("rejection_reason")
	}

	request, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load leave request", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	if request.Status != StatusPending {
		return nil, leaveerrors.ErrAlreadyProcessed
	}

	emp, err := s.requireApprover(ctx, request, approverID, role)
	if err != nil {
		return nil, err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		decided, err := s.repo.WithTx(tx).MarkDecided(ctx, leaveID, StatusRejected, appID, req.RejectionReason)
		if err != nil {
			return err
		}
		if !decided {
			return leaveerrors.ErrAlreadyProcessed
		}
		return s.enqueueDecision(ctx, tx, request, appID, StatusRejected, req.RejectionReason)
	})
	if txErr != nil {
		var appErr *apperror.AppError
		if errors.As(txErr, &appErr) {
			return nil, txErr
		}
		s.logger.Error("reject transaction failed", zap.Error(txErr))
		return nil, apperror.ErrInternal
	}

	request.Status = StatusRejected
	request.ApprovedBy = &appID
	request.RejectionReason = req.RejectionReason

	s.logger.Info("leave request rejected",
		zap.String("leave_id", id),
		zap.String("approver_id", approverID),
	)

	return mapToResponse(request, emp.FullName), nil
}

func (s *service) Cancel(ctx context.Context, id, requesterID string) (*LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	request, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("failed to load leave request", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	// Cancellation belongs to the requesting employee alone.
	if request.EmployeeID.String() != requesterID {
		return nil, leaveerrors.ErrNotRequestOwner
	}
	if IsTerminal(request.Status) {
		return nil, leaveerrors.ErrInvalidTransition
	}

	cancelled, err := s.repo.MarkCancelled(ctx, leaveID)
	if err != nil {
		s.logger.Error("failed to cancel leave request", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	if !cancelled {
		return nil, leaveerrors.ErrInvalidTransition
	}

	request.Status = StatusCancelled

	s.logger.Info("leave request cancelled",
		zap.String("leave_id", id),
		zap.String("employee_id", requesterID),
	)

	return mapToResponse(request, ""), nil
}

// enqueueDecision writes the decision event to the outbox inside the
// deciding transaction.
func (s *service) enqueueDecision(ctx context.Context, tx *gorm.DB, request *LeaveRequest, approverID uuid.UUID, status, rejectionReason string) error {
	event := events.LeaveDecidedEvent{
		LeaveRequestID:  request.ID.String(),
		EmployeeID:      request.EmployeeID.String(),
		ApproverID:      approverID.String(),
		LeaveType:       request.LeaveType,
		Status:          status,
		WorkingDays:     request.DaysCalculated,
		StartDate:       request.StartDate.Format("2006-01-02"),
		EndDate:         request.EndDate.Format("2006-01-02"),
		RejectionReason: rejectionReason,
		DecidedAt:       s.clock.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   request.ID.String(),
		EventType:     "leave.decided",
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapAll(requests []LeaveRequest) []LeaveResponse {
	responses := make([]LeaveResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *mapToResponse(&requests[i], ""))
	}
	return responses
}

func mapToResponse(r *LeaveRequest, employeeName string) *LeaveResponse {
	res := &LeaveResponse{
		ID:              r.ID.String(),
		EmployeeID:      r.EmployeeID.String(),
		EmployeeName:    employeeName,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		LeaveType:       r.LeaveType,
		Reason:          r.Reason,
		DaysCalculated:  r.DaysCalculated,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ApprovedBy != nil {
		res.ApprovedBy = r.ApprovedBy.String()
	}
	return res
}
