package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const employeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, search string, page, pageSize int) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]OptionResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	Accrue(ctx context.Context, req AccrueRequest) (AccrueResponse, error)
	DashboardStats(ctx context.Context) (DashboardStatsResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, counterRepo counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	role := req.Role
	if role == "" {
		role = RoleEmployee
	}
	if role == RoleAdmin && req.Email != os.Getenv("ADMIN_EMAIL") {
		return EmployeeResponse{}, employeeerrors.ErrAdminReserved
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		parsed, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidManagerID
		}
		managerID = &parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create employee hash password failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	var created *Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if managerID != nil {
			if _, err := qtx.FindByID(ctx, managerID.String()); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return employeeerrors.ErrManagerNotFound
				}
				return err
			}
		}

		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			return err
		}

		e := &Employee{
			ID:              uuid.New(),
			EmployeeNumber:  fmt.Sprintf("EMP-%04d", nextVal),
			FullName:        req.FullName,
			Email:           req.Email,
			PasswordHash:    string(hash),
			Role:            role,
			Department:      req.Department,
			ManagerID:       managerID,
			SickBalance:     DefaultSickDays,
			CasualBalance:   DefaultCasualDays,
			VacationBalance: DefaultVacationDays,
		}
		if err := qtx.Create(ctx, e); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return employeeerrors.ErrEmailTaken
			}
			return err
		}
		created = e
		return nil
	})
	if err != nil {
		s.logger.Warn("create employee failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create employee success",
		zap.String("employee_id", created.ID.String()),
		zap.String("employee_number", created.EmployeeNumber),
	)
	return mapToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context, search string, page, pageSize int) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.repo.FindAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

// GetOptions serves the approver/manager picker. The list changes rarely, so
// it is cached in Redis and rebuilt behind a singleflight group to avoid a
// stampede when the cache expires.
func (s *service) GetOptions(ctx context.Context) ([]OptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, employeeOptionsKey).Result(); err == nil {
			var opts []OptionResponse
			if err := json.Unmarshal([]byte(cached), &opts); err == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(employeeOptionsKey, func() (interface{}, error) {
		employees, err := s.repo.ListOptions(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]OptionResponse, len(employees))
		for i, e := range employees {
			opts[i] = OptionResponse{
				ID:       e.ID.String(),
				FullName: e.FullName,
				Role:     e.Role,
			}
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(opts); err == nil {
				s.rdb.Set(ctx, employeeOptionsKey, payload, 10*time.Minute)
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]OptionResponse), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	var updated *Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		e, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrEmployeeNotFound
			}
			return err
		}

		if req.Role == RoleAdmin && e.Role != RoleAdmin {
			adminEmail := os.Getenv("ADMIN_EMAIL")
			if e.Email != adminEmail && req.Email != adminEmail {
				return employeeerrors.ErrAdminReserved
			}
		}

		if req.FullName != "" {
			e.FullName = req.FullName
		}
		if req.Email != "" {
			e.Email = req.Email
		}
		if req.Role != "" {
			e.Role = req.Role
		}
		if req.Department != "" {
			e.Department = req.Department
		}
		if req.ManagerID != nil {
			if *req.ManagerID == "" {
				e.ManagerID = nil
			} else {
				parsed, err := uuid.Parse(*req.ManagerID)
				if err != nil {
					return employeeerrors.ErrInvalidManagerID
				}
				e.ManagerID = &parsed
			}
		}

		if err := qtx.Update(ctx, e); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return employeeerrors.ErrEmailTaken
			}
			return err
		}

		if req.Balances != nil {
			// Absolute override: the admin sets the values directly, no
			// invariant beyond non-negativity (enforced at binding).
			if err := qtx.SetBalances(ctx, e.ID, Balances{
				Sick:     req.Balances.Sick,
				Casual:   req.Balances.Casual,
				Vacation: req.Balances.Vacation,
			}); err != nil {
				return err
			}
			refreshed, err := qtx.FindByID(ctx, id)
			if err != nil {
				return err
			}
			e = refreshed
		}

		updated = e
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("update employee success", zap.String("employee_id", id), zap.String("actor_id", actorID))
	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return employeeerrors.ErrSelfDelete
	}
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if _, err := qtx.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return employeeerrors.ErrEmployeeNotFound
			}
			return err
		}
		return qtx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("delete employee success", zap.String("employee_id", id), zap.String("actor_id", actorID))
	return nil
}

func (s *service) Accrue(ctx context.Context, req AccrueRequest) (AccrueResponse, error) {
	count, err := s.repo.AccrueAll(ctx, BalanceDeltas{
		Sick:     req.Sick,
		Casual:   req.Casual,
		Vacation: req.Vacation,
	})
	if err != nil {
		s.logger.Error("accrue balances failed", zap.Error(err))
		return AccrueResponse{}, err
	}

	s.logger.Info("accrue balances success",
		zap.Int("sick", req.Sick),
		zap.Int("casual", req.Casual),
		zap.Int("vacation", req.Vacation),
		zap.Int64("updated_count", count),
	)
	return AccrueResponse{UpdatedCount: count}, nil
}

func (s *service) DashboardStats(ctx context.Context) (DashboardStatsResponse, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return DashboardStatsResponse{}, err
	}
	return DashboardStatsResponse{
		TotalEmployees:   stats.TotalEmployees,
		TotalRequests:    stats.TotalRequests,
		PendingRequests:  stats.PendingRequests,
		ApprovedRequests: stats.ApprovedRequests,
		RejectedRequests: stats.RejectedRequests,
	}, nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, employeeOptionsKey)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FullName:       e.FullName,
		Email:          e.Email,
		Role:           e.Role,
		Department:     e.Department,
		Balances: BalanceResponse{
			Sick:     e.SickBalance,
			Casual:   e.CasualBalance,
			Vacation: e.VacationBalance,
		},
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}
