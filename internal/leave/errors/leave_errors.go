package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "Invalid leave request ID format",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidDateRange = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "End date must not be before start date",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBackdatedStart = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "Start date must not be in the past",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrSpanTooLong = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "Leave may span at most 30 calendar days",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNoWorkingDays = &apperror.AppError{
		Code:       apperror.CodeNoWorkingDays,
		Message:    "The requested range contains no working days",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	// Raised at apply and again at approve commit time. Use WithMessage to
	// attach the current balance and requested days.
	ErrInsufficientBalance = &apperror.AppError{
		Code:       apperror.CodeInsufficientBalance,
		Message:    "Insufficient leave balance",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	ErrOverlappingRequest = &apperror.AppError{
		Code:       apperror.CodeConflict,
		Message:    "An active leave request already covers part of this range",
		HTTPStatus: http.StatusConflict,
	}

	ErrLeaveNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "Leave request not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrAlreadyProcessed = &apperror.AppError{
		Code:       apperror.CodeInvalidState,
		Message:    "Leave request has already been processed",
		HTTPStatus: http.StatusConflict,
	}

	ErrInvalidTransition = &apperror.AppError{
		Code:       apperror.CodeInvalidState,
		Message:    "Only pending requests can be cancelled",
		HTTPStatus: http.StatusConflict,
	}

	ErrNotTeamManager = &apperror.AppError{
		Code:       apperror.CodeForbidden,
		Message:    "Only the employee's manager or an admin may decide this request",
		HTTPStatus: http.StatusForbidden,
	}

	ErrNotRequestOwner = &apperror.AppError{
		Code:       apperror.CodeForbidden,
		Message:    "Only the requesting employee may cancel this request",
		HTTPStatus: http.StatusForbidden,
	}
)
