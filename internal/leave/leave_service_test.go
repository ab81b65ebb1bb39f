package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Fixed "today" for every test. 2026-01-01 is a Thursday.
var testToday = time.Date(2026, time.January, 1, 9, 30, 0, 0, time.UTC)

func newGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

type fakeRepo struct {
	createFn               func(ctx context.Context, req *leave.LeaveRequest) error
	findByIDFn             func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error)
	hasActiveOverlapFn     func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error)
	teamApprovedOverlapsFn func(ctx context.Context, managerID, excludeEmployeeID uuid.UUID, start, end time.Time) ([]leave.TeamOverlap, error)
	markDecidedFn          func(ctx context.Context, id uuid.UUID, status string, approvedBy uuid.UUID, rejectionReason string) (bool, error)
	markCancelledFn        func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (f *fakeRepo) WithTx(tx *gorm.DB) leave.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, req *leave.LeaveRequest) error {
	return f.createFn(ctx, req)
}
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindAllByEmployee(ctx context.Context, employeeID uuid.UUID, page, pageSize int) ([]leave.LeaveRequest, int64, error) {
	return nil, 0, nil
}
func (f *fakeRepo) FindByStatusForApprover(ctx context.Context, status string, approverID uuid.UUID, allTeams bool, page, pageSize int) ([]leave.LeaveRequest, int64, error) {
	return nil, 0, nil
}
func (f *fakeRepo) HasActiveOverlap(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	return f.hasActiveOverlapFn(ctx, employeeID, start, end)
}
func (f *fakeRepo) TeamApprovedOverlaps(ctx context.Context, managerID, excludeEmployeeID uuid.UUID, start, end time.Time) ([]leave.TeamOverlap, error) {
	if f.teamApprovedOverlapsFn != nil {
		return f.teamApprovedOverlapsFn(ctx, managerID, excludeEmployeeID, start, end)
	}
	return nil, nil
}
func (f *fakeRepo) MarkDecided(ctx context.Context, id uuid.UUID, status string, approvedBy uuid.UUID, rejectionReason string) (bool, error) {
	return f.markDecidedFn(ctx, id, status, approvedBy, rejectionReason)
}
func (f *fakeRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.markCancelledFn(ctx, id)
}

type fakeEmployeeRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*employee.Employee, error)
	debitBalanceFn func(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *gorm.DB) employee.Repository { return f }
func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepo) FindAll(ctx context.Context, search string, page, pageSize int) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeEmployeeRepo) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeEmployeeRepo) ListOptions(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) DebitBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
	return f.debitBalanceFn(ctx, id, leaveType, days)
}
func (f *fakeEmployeeRepo) AccrueAll(ctx context.Context, deltas employee.BalanceDeltas) (int64, error) {
	return 0, nil
}
func (f *fakeEmployeeRepo) SetBalances(ctx context.Context, id uuid.UUID, b employee.Balances) error {
	return nil
}
func (f *fakeEmployeeRepo) Stats(ctx context.Context) (employee.DashboardStats, error) {
	return employee.DashboardStats{}, nil
}

type fakeHolidays struct {
	dates []time.Time
}

func (f *fakeHolidays) DatesBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	return f.dates, nil
}

type fakeSettings struct {
	enabled bool
}

func (f *fakeSettings) WeeklyHolidayEnabled(ctx context.Context) (bool, error) {
	return f.enabled, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type serviceFixture struct {
	svc      leave.Service
	mock     sqlmock.Sqlmock
	repo     *fakeRepo
	empRepo  *fakeEmployeeRepo
	holidays *fakeHolidays
	settings *fakeSettings
	outbox   *fakeOutbox
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db, mock := newGormDB(t)

	f := &serviceFixture{
		mock:     mock,
		repo:     &fakeRepo{},
		empRepo:  &fakeEmployeeRepo{},
		holidays: &fakeHolidays{},
		settings: &fakeSettings{enabled: true},
		outbox:   &fakeOutbox{},
	}
	f.svc = leave.NewService(
		db,
		f.repo,
		f.empRepo,
		f.holidays,
		f.settings,
		f.outbox,
		clock.NewFixed(testToday),
		zap.NewNop(),
	)
	return f
}

func employeeWithBalances(managerID *uuid.UUID, vacation, casual, sick int) *employee.Employee {
	return &employee.Employee{
		ID:              uuid.New(),
		FullName:        "Test Employee",
		Role:            employee.RoleEmployee,
		ManagerID:       managerID,
		VacationBalance: vacation,
		CasualBalance:   casual,
		SickBalance:     sick,
	}
}

func TestService_Apply_FullWeekdayRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 5, 0, 0)
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.repo.hasActiveOverlapFn = func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
		return false, nil
	}
	var created *leave.LeaveRequest
	f.repo.createFn = func(ctx context.Context, req *leave.LeaveRequest) error {
		created = req
		return nil
	}

	// Mon Jan 5 through Fri Jan 9, no holidays.
	res, err := f.svc.Apply(ctx, emp.ID.String(), leave.ApplyLeaveRequest{
		StartDate: "2026-01-05",
		EndDate:   "2026-01-09",
		LeaveType: employee.LeaveTypeVacation,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.DaysCalculated)
	assert.Equal(t, leave.StatusPending, res.Status)
	require.NotNil(t, created)
	assert.Equal(t, 5, created.DaysCalculated)
	// Submission never touches the balance.
	assert.Equal(t, 5, emp.VacationBalance)
}

func TestService_Apply_DeclaredHolidayReducesCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 10, 0, 0)
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.repo.hasActiveOverlapFn = func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
		return false, nil
	}
	f.repo.createFn = func(ctx context.Context, req *leave.LeaveRequest) error { return nil }

	// Wednesday Jan 7 declared a holiday.
	f.holidays.dates = []time.Time{time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC)}

	res, err := f.svc.Apply(ctx, emp.ID.String(), leave.ApplyLeaveRequest{
		StartDate: "2026-01-05",
		EndDate:   "2026-01-09",
		LeaveType: employee.LeaveTypeVacation,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.DaysCalculated)
}

func TestService_Apply_WeeklyHolidayToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 20, 0, 0)
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.repo.hasActiveOverlapFn = func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
		return false, nil
	}
	f.repo.createFn = func(ctx context.Context, req *leave.LeaveRequest) error { return nil }

	// Sunday Jan 11 falls inside Mon Jan 5 to Mon Jan 12.
	req := leave.ApplyLeaveRequest{
		StartDate: "2026-01-05",
		EndDate:   "2026-01-12",
		LeaveType: employee.LeaveTypeVacation,
	}

	first, err := f.svc.Apply(ctx, emp.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, 7, first.DaysCalculated)

	// Toggling the setting changes only subsequent submissions.
	f.settings.enabled = false
	second, err := f.svc.Apply(ctx, emp.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, 8, second.DaysCalculated)
	assert.Equal(t, 7, first.DaysCalculated)
}

func TestService_Apply_NoWorkingDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Sunday Jan 4 only, weekly holiday enabled.
	_, err := f.svc.Apply(ctx, uuid.New().String(), leave.ApplyLeaveRequest{
		StartDate: "2026-01-04",
		EndDate:   "2026-01-04",
		LeaveType: employee.LeaveTypeCasual,
	})
	assert.ErrorIs(t, err, leaveerrors.ErrNoWorkingDays)
}

func TestService_Apply_ValidationFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empID := uuid.New().String()

	tests := []struct {
		name    string
		req     leave.ApplyLeaveRequest
		wantErr error
	}{
		{
			name: "end before start",
			req: leave.ApplyLeaveRequest{
				StartDate: "2026-01-09",
				EndDate:   "2026-01-05",
				LeaveType: employee.LeaveTypeSick,
			},
			wantErr: leaveerrors.ErrInvalidDateRange,
		},
		{
			name: "backdated start",
			req: leave.ApplyLeaveRequest{
				StartDate: "2025-12-31",
				EndDate:   "2026-01-05",
				LeaveType: employee.LeaveTypeSick,
			},
			wantErr: leaveerrors.ErrBackdatedStart,
		},
		{
			name: "span one day over the cap",
			req: leave.ApplyLeaveRequest{
				StartDate: "2026-01-05",
				EndDate:   "2026-02-05",
				LeaveType: employee.LeaveTypeSick,
			},
			wantErr: leaveerrors.ErrSpanTooLong,
		},
		{
			name: "span far over the cap",
			req: leave.ApplyLeaveRequest{
				StartDate: "2026-01-05",
				EndDate:   "2026-02-10",
				LeaveType: employee.LeaveTypeSick,
			},
			wantErr: leaveerrors.ErrSpanTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Apply(ctx, empID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Apply_SpanCapBoundaryAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 30, 0, 0)
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.repo.hasActiveOverlapFn = func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
		return false, nil
	}
	f.repo.createFn = func(ctx context.Context, req *leave.LeaveRequest) error { return nil }

	// Feb 4 minus Jan 5 is exactly 30 calendar days, the last span the cap
	// allows. Four Sundays fall inside, leaving 27 working days.
	res, err := f.svc.Apply(ctx, emp.ID.String(), leave.ApplyLeaveRequest{
		StartDate: "2026-01-05",
		EndDate:   "2026-02-04",
		LeaveType: employee.LeaveTypeVacation,
	})
	require.NoError(t, err)
	assert.Equal(t, 27, res.DaysCalculated)
}

func TestService_Apply_InsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 3, 0, 0)
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}

	_, err := f.svc.Apply(ctx, emp.ID.String(), leave.ApplyLeaveRequest{
		StartDate: "2026-01-05",
		EndDate:   "2026-01-09",
		LeaveType: employee.LeaveTypeVacation,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
	assert.Contains(t, appErr.Message, "3")
	assert.Contains(t, appErr.Message, "5")
}

func TestService_Apply_OverlappingRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 0, 12, 0)
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.repo.hasActiveOverlapFn = func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
		return true, nil
	}

	// Jan 11-13 against an existing Jan 10-12 pending request.
	_, err := f.svc.Apply(ctx, emp.ID.String(), leave.ApplyLeaveRequest{
		StartDate: "2026-01-11",
		EndDate:   "2026-01-13",
		LeaveType: employee.LeaveTypeCasual,
	})
	assert.ErrorIs(t, err, leaveerrors.ErrOverlappingRequest)
}

func TestService_Apply_RangeConflictAtInsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 0, 12, 0)
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.repo.hasActiveOverlapFn = func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
		return false, nil
	}
	f.repo.createFn = func(ctx context.Context, req *leave.LeaveRequest) error {
		return leave.ErrRangeConflict
	}

	_, err := f.svc.Apply(ctx, emp.ID.String(), leave.ApplyLeaveRequest{
		StartDate: "2026-01-05",
		EndDate:   "2026-01-06",
		LeaveType: employee.LeaveTypeCasual,
	})
	assert.ErrorIs(t, err, leaveerrors.ErrOverlappingRequest)
}

func pendingRequest(empID uuid.UUID) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:             uuid.New(),
		EmployeeID:     empID,
		StartDate:      time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC),
		LeaveType:      employee.LeaveTypeVacation,
		DaysCalculated: 5,
		Status:         leave.StatusPending,
	}
}

func TestService_Approve_DebitsAndTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	managerID := uuid.New()
	emp := employeeWithBalances(&managerID, 5, 0, 0)
	request := pendingRequest(emp.ID)

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	var debitedDays int
	f.empRepo.debitBalanceFn = func(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
		debitedDays = days
		return true, nil
	}
	f.repo.markDecidedFn = func(ctx context.Context, id uuid.UUID, status string, approvedBy uuid.UUID, rejectionReason string) (bool, error) {
		assert.Equal(t, leave.StatusApproved, status)
		assert.Equal(t, managerID, approvedBy)
		return true, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.Approve(ctx, request.ID.String(), managerID.String(), employee.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, res.Status)
	assert.Equal(t, 5, debitedDays)
	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, "leave.decided", f.outbox.created[0].EventType)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Approve_AlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	managerID := uuid.New()
	emp := employeeWithBalances(&managerID, 5, 0, 0)
	request := pendingRequest(emp.ID)
	request.Status = leave.StatusApproved

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}

	_, err := f.svc.Approve(ctx, request.ID.String(), managerID.String(), employee.RoleManager)
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
}

func TestService_Approve_InsufficientBalanceAtCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	managerID := uuid.New()
	emp := employeeWithBalances(&managerID, 2, 0, 0)
	request := pendingRequest(emp.ID)

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.empRepo.debitBalanceFn = func(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
		return false, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Approve(ctx, request.ID.String(), managerID.String(), employee.RoleManager)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
	assert.Empty(t, f.outbox.created)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Approve_ReportsFreshBalanceOnFailedDebit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	managerID := uuid.New()
	emp := employeeWithBalances(&managerID, 4, 0, 0)
	request := pendingRequest(emp.ID)

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}
	// A concurrent approval lands between the authorization read and the
	// debit: the second read sees the drained balance.
	reads := 0
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		reads++
		if reads == 1 {
			return emp, nil
		}
		drained := *emp
		drained.VacationBalance = 1
		return &drained, nil
	}
	f.empRepo.debitBalanceFn = func(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
		return false, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Approve(ctx, request.ID.String(), managerID.String(), employee.RoleManager)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
	assert.Contains(t, appErr.Message, "1 day(s) remaining")
	assert.Contains(t, appErr.Message, "5 requested")
	assert.Equal(t, 2, reads)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Approve_NotTeamManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	managerID := uuid.New()
	emp := employeeWithBalances(&managerID, 5, 0, 0)
	request := pendingRequest(emp.ID)

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}

	_, err := f.svc.Approve(ctx, request.ID.String(), uuid.New().String(), employee.RoleManager)
	assert.ErrorIs(t, err, leaveerrors.ErrNotTeamManager)
}

func TestService_Approve_AdminBypassesManagerCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 5, 0, 0)
	request := pendingRequest(emp.ID)
	adminID := uuid.New()

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	f.empRepo.debitBalanceFn = func(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
		return true, nil
	}
	f.repo.markDecidedFn = func(ctx context.Context, id uuid.UUID, status string, approvedBy uuid.UUID, rejectionReason string) (bool, error) {
		return true, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.Approve(ctx, request.ID.String(), adminID.String(), employee.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, res.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Reject_RequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Reject(ctx, uuid.New().String(), uuid.New().String(), employee.RoleManager, leave.RejectLeaveRequest{})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestService_Reject_NoLedgerChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	managerID := uuid.New()
	emp := employeeWithBalances(&managerID, 5, 0, 0)
	request := pendingRequest(emp.ID)

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}
	f.empRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	debitCalled := false
	f.empRepo.debitBalanceFn = func(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
		debitCalled = true
		return true, nil
	}
	f.repo.markDecidedFn = func(ctx context.Context, id uuid.UUID, status string, approvedBy uuid.UUID, rejectionReason string) (bool, error) {
		assert.Equal(t, leave.StatusRejected, status)
		assert.Equal(t, "coverage too thin that week", rejectionReason)
		return true, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.svc.Reject(ctx, request.ID.String(), managerID.String(), employee.RoleManager, leave.RejectLeaveRequest{
		RejectionReason: "coverage too thin that week",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, res.Status)
	assert.Equal(t, "coverage too thin that week", res.RejectionReason)
	assert.False(t, debitCalled)
	require.Len(t, f.outbox.created, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Cancel_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 5, 0, 0)
	request := pendingRequest(emp.ID)

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}

	_, err := f.svc.Cancel(ctx, request.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
}

func TestService_Cancel_PendingOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 5, 0, 0)

	for _, status := range []string{leave.StatusApproved, leave.StatusRejected, leave.StatusCancelled} {
		t.Run(status, func(t *testing.T) {
			request := pendingRequest(emp.ID)
			request.Status = status
			f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
				return request, nil
			}

			_, err := f.svc.Cancel(ctx, request.ID.String(), emp.ID.String())
			assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
		})
	}
}

func TestService_Cancel_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := employeeWithBalances(nil, 5, 0, 0)
	request := pendingRequest(emp.ID)

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return request, nil
	}
	f.repo.markCancelledFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
		return true, nil
	}

	res, err := f.svc.Cancel(ctx, request.ID.String(), emp.ID.String())
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, res.Status)
}

func TestService_Cancel_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := f.svc.Cancel(ctx, uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
}
