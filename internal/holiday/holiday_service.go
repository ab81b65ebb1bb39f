package holiday

import (
	"context"
	"errors"
	"time"

	holidayerrors "go-leave/internal/holiday/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/workingday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (*HolidayResponse, error)
	GetAll(ctx context.Context, year int) ([]HolidayResponse, error)
	GetByID(ctx context.Context, id string) (*HolidayResponse, error)
	Update(ctx context.Context, id string, req UpdateHolidayRequest) (*HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	DatesBetween(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, logger: l}
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, holidayerrors.ErrInvalidDate
	}
	return workingday.DateOnly(t), nil
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (*HolidayResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	h := &Holiday{
		ID:   uuid.New(),
		Name: req.Name,
		Date: date,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, holidayerrors.ErrDuplicateDate
		}
		s.logger.Error("failed to create holiday", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	s.logger.Info("holiday created",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
	)

	return mapToResponse(h), nil
}

func (s *service) GetAll(ctx context.Context, year int) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx, year)
	if err != nil {
		s.logger.Error("failed to list holidays", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	responses := make([]HolidayResponse, 0, len(holidays))
	for i := range holidays {
		responses = append(responses, *mapToResponse(&holidays[i]))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*HolidayResponse, error) {
	holidayID, err := uuid.Parse(id)
	if err != nil {
		return nil, holidayerrors.ErrInvalidHolidayID
	}

	h, err := s.repo.FindByID(ctx, holidayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, holidayerrors.ErrHolidayNotFound
		}
		s.logger.Error("failed to find holiday", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	return mapToResponse(h), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateHolidayRequest) (*HolidayResponse, error) {
	holidayID, err := uuid.Parse(id)
	if err != nil {
		return nil, holidayerrors.ErrInvalidHolidayID
	}

	h, err := s.repo.FindByID(ctx, holidayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, holidayerrors.ErrHolidayNotFound
		}
		s.logger.Error("failed to find holiday", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		h.Date = date
	}

	if err := s.repo.Update(ctx, h); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, holidayerrors.ErrDuplicateDate
		}
		s.logger.Error("failed to update holiday", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	return mapToResponse(h), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	holidayID, err := uuid.Parse(id)
	if err != nil {
		return holidayerrors.ErrInvalidHolidayID
	}

	if err := s.repo.Delete(ctx, holidayID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		s.logger.Error("failed to delete holiday", zap.Error(err))
		return apperror.ErrInternal
	}

	s.logger.Info("holiday deleted", zap.String("holiday_id", id))
	return nil
}

func (s *service) DatesBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	return s.repo.DatesBetween(ctx, workingday.DateOnly(start), workingday.DateOnly(end))
}

func mapToResponse(h *Holiday) *HolidayResponse {
	return &HolidayResponse{
		ID:        h.ID.String(),
		Name:      h.Name,
		Date:      h.Date.Format("2006-01-02"),
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}
