package leaveerrors

import (
	"net/http"

	"github.com/jdsuarez23/comfachoco/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"reason must be at least 20 characters",
		http.StatusBadRequest,
	)
	ErrInvalidDaysRequested = apperror.New(
		apperror.CodeInvalidInput,
		"days requested must be at least 1",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date range",
		http.StatusBadRequest,
	)
	ErrInvalidAreaImpact = apperror.New(
		apperror.CodeInvalidInput,
		"area impact must be one of LOW, MEDIUM, HIGH",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"leave request is no longer pending",
		http.StatusConflict,
	)
	ErrConcurrentDecision = apperror.New(
		apperror.CodeConflict,
		"leave request was decided by another approver",
		http.StatusConflict,
	)
	ErrInvalidAuthorizedDays = apperror.New(
		apperror.CodeInvalidInput,
		"authorized days must be at least 1",
		http.StatusBadRequest,
	)
	ErrAuthorizedDaysExceed = apperror.New(
		apperror.CodeInvalidInput,
		"authorized days cannot exceed requested days",
		http.StatusBadRequest,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a comment is required to reject a request",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owning employee may perform this action",
		http.StatusForbidden,
	)
	ErrNoSupportFile = apperror.New(
		apperror.CodeNotFound,
		"no support file attached to this request",
		http.StatusNotFound,
	)
	ErrSupportFileMissing = apperror.New(
		apperror.CodeNotFound,
		"support file not found in storage",
		http.StatusNotFound,
	)
)
