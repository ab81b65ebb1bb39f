package holidayerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidHolidayID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "Invalid holiday ID format",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidDate = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "Date must be in YYYY-MM-DD format",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrHolidayNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "Holiday not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrDuplicateDate = &apperror.AppError{
		Code:       apperror.CodeConflict,
		Message:    "A holiday already exists on that date",
		HTTPStatus: http.StatusConflict,
	}
)
