package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error)
	Me(ctx context.Context, userID string) (*ProfileResponse, error)
}

type service struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, clock: clk, logger: l}
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func (s *service) signToken(userID, role string, ttl time.Duration, tokenType string) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"type":    tokenType,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func (s *service) issueTokens(userID, role string) (*TokenResponse, error) {
	access, err := s.signToken(userID, role, accessTokenTTL, "access")
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(userID, role, refreshTokenTTL, "refresh")
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	emp, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password, no account enumeration.
			return nil, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up account", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return nil, autherrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(emp.ID.String(), emp.Role)
	if err != nil {
		s.logger.Error("failed to sign tokens", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", emp.ID.String()),
		zap.String("role", emp.Role),
	)
	return tokens, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		if err != nil && errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return nil, autherrors.ErrInvalidToken
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	// Re-read the account so a role change since login takes effect.
	emp, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrInvalidToken
		}
		s.logger.Error("failed to look up account", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	tokens, err := s.issueTokens(emp.ID.String(), emp.Role)
	if err != nil {
		s.logger.Error("failed to sign tokens", zap.Error(err))
		return nil, apperror.ErrInternal
	}
	return tokens, nil
}

func (s *service) Me(ctx context.Context, userID string) (*ProfileResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		s.logger.Error("failed to look up account", zap.Error(err))
		return nil, apperror.ErrInternal
	}

	return &ProfileResponse{
		ID:             emp.ID.String(),
		EmployeeNumber: emp.EmployeeNumber,
		FullName:       emp.FullName,
		Email:          emp.Email,
		Role:           emp.Role,
		Department:     emp.Department,
	}, nil
}
