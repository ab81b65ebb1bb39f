package autherrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = &apperror.AppError{
		Code:       apperror.CodeUnauthorized,
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidToken = &apperror.AppError{
		Code:       "INVALID_TOKEN",
		Message:    "Token is invalid",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenExpired = &apperror.AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "Token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrUserNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "User not found",
		HTTPStatus: http.StatusNotFound,
	}
)
