package employee_test

import (
	"context"
	"strings"
	"testing"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

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
	createFn    func(ctx context.Context, e *employee.Employee) error
	findByIDFn  func(ctx context.Context, id string) (*employee.Employee, error)
	deleteFn    func(ctx context.Context, id string) error
	accrueAllFn func(ctx context.Context, deltas employee.BalanceDeltas) (int64, error)
}

func (f *fakeRepo) WithTx(tx *gorm.DB) employee.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *employee.Employee) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindAll(ctx context.Context, search string, page, pageSize int) ([]employee.Employee, int64, error) {
	return nil, 0, nil
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeRepo) Delete(ctx context.Context, id string) error            { return f.deleteFn(ctx, id) }
func (f *fakeRepo) ListOptions(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeRepo) DebitBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
	return false, nil
}
func (f *fakeRepo) AccrueAll(ctx context.Context, deltas employee.BalanceDeltas) (int64, error) {
	return f.accrueAllFn(ctx, deltas)
}
func (f *fakeRepo) SetBalances(ctx context.Context, id uuid.UUID, b employee.Balances) error {
	return nil
}
func (f *fakeRepo) Stats(ctx context.Context) (employee.DashboardStats, error) {
	return employee.DashboardStats{}, nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func TestService_Create_AssignsNumberAndDefaults(t *testing.T) {
	db, mock := newGormDB(t)
	ctx := context.Background()

	repo := &fakeRepo{}
	var created employee.Employee
	repo.createFn = func(ctx context.Context, e *employee.Employee) error {
		created = *e
		return nil
	}
	repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return &employee.Employee{ID: uuid.MustParse(id), Role: employee.RoleManager}, nil
	}

	svc := employee.NewService(db, repo, &fakeCounter{next: 41}, nil, zap.NewNop())

	managerID := uuid.New().String()
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		FullName:   "Dewi Lestari",
		Email:      "dewi@example.com",
		Password:   "s3cret-pass",
		Role:       employee.RoleEmployee,
		Department: "Engineering",
		ManagerID:  &managerID,
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP-0042", res.EmployeeNumber)
	assert.Equal(t, employee.DefaultSickDays, created.SickBalance)
	assert.Equal(t, employee.DefaultCasualDays, created.CasualBalance)
	assert.Equal(t, employee.DefaultVacationDays, created.VacationBalance)
	// Stored hash, never the raw password.
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
	assert.True(t, strings.HasPrefix(created.PasswordHash, "$2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_AdminRoleReserved(t *testing.T) {
	db, _ := newGormDB(t)
	ctx := context.Background()

	svc := employee.NewService(db, &fakeRepo{}, &fakeCounter{}, nil, zap.NewNop())

	_, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		FullName: "Someone",
		Email:    "not-the-admin@example.com",
		Password: "password",
		Role:     employee.RoleAdmin,
	})
	assert.ErrorIs(t, err, employeeerrors.ErrAdminReserved)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	db, mock := newGormDB(t)
	ctx := context.Background()

	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, e *employee.Employee) error {
		return gorm.ErrDuplicatedKey
	}

	svc := employee.NewService(db, repo, &fakeCounter{}, nil, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		FullName: "Duplicate",
		Email:    "taken@example.com",
		Password: "password",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_ManagerNotFound(t *testing.T) {
	db, mock := newGormDB(t)
	ctx := context.Background()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := employee.NewService(db, repo, &fakeCounter{}, nil, zap.NewNop())

	managerID := uuid.New().String()
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(ctx, employee.CreateEmployeeRequest{
		FullName:  "Orphan",
		Email:     "orphan@example.com",
		Password:  "password",
		ManagerID: &managerID,
	})
	assert.ErrorIs(t, err, employeeerrors.ErrManagerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Accrue_PassesDeltas(t *testing.T) {
	db, _ := newGormDB(t)
	ctx := context.Background()

	repo := &fakeRepo{}
	var got employee.BalanceDeltas
	repo.accrueAllFn = func(ctx context.Context, deltas employee.BalanceDeltas) (int64, error) {
		got = deltas
		return 7, nil
	}

	svc := employee.NewService(db, repo, &fakeCounter{}, nil, zap.NewNop())

	res, err := svc.Accrue(ctx, employee.AccrueRequest{Sick: 1, Casual: 2, Vacation: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.UpdatedCount)
	assert.Equal(t, employee.BalanceDeltas{Sick: 1, Casual: 2, Vacation: 3}, got)
}

func TestService_Delete_SelfGuard(t *testing.T) {
	db, _ := newGormDB(t)
	ctx := context.Background()

	svc := employee.NewService(db, &fakeRepo{}, &fakeCounter{}, nil, zap.NewNop())

	id := uuid.New().String()
	err := svc.Delete(ctx, id, id)
	assert.ErrorIs(t, err, employeeerrors.ErrSelfDelete)
}
