package settings

import (
	"context"

	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context) (*SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error)
	// WeeklyHolidayEnabled reads the current toggle. Callers must not cache
	// the result across requests; a flipped setting applies to the next
	// calculation immediately.
	WeeklyHolidayEnabled(ctx context.Context) (bool, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Get(ctx context.Context) (*SettingsResponse, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	return &SettingsResponse{
		WeeklyHolidayEnabled: setting.WeeklyHolidayEnabled,
		UpdatedAt:            setting.UpdatedAt,
	}, nil
}

func (s *service) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	setting.WeeklyHolidayEnabled = *req.WeeklyHolidayEnabled
	if err := s.repo.Update(ctx, setting); err != nil {
		s.logger.Error("failed to update settings", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	s.logger.Info("settings updated",
		zap.Bool("weekly_holiday_enabled", setting.WeeklyHolidayEnabled),
	)

	return &SettingsResponse{
		WeeklyHolidayEnabled: setting.WeeklyHolidayEnabled,
		UpdatedAt:            setting.UpdatedAt,
	}, nil
}

func (s *service) WeeklyHolidayEnabled(ctx context.Context) (bool, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return false, err
	}
	return setting.WeeklyHolidayEnabled, nil
}
