package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrConflict
	ErrUnavailable
	ErrInvalidDate
	ErrSlotTaken
	ErrIllegalTransition
	ErrAuthorization
	ErrNotFound
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to an HTTP status for the error middleware.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation, ErrInvalidDate:
		return http.StatusBadRequest
	case ErrConflict, ErrSlotTaken:
		return http.StatusConflict
	case ErrUnavailable, ErrIllegalTransition:
		return http.StatusUnprocessableEntity
	case ErrAuthorization:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation reports a field-level input problem. field may be empty for
// form-level messages.
func Validation(field, message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message, Field: field}
}

// Conflict reports an overlapping schedule or slot; nothing was persisted.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrConflict, Message: message}
}

// Unavailable reports a booking attempt against a day with no open intervals.
func Unavailable(message string) *AppError {
	return &AppError{Code: ErrUnavailable, Message: message}
}

// InvalidDate reports a temporal validation failure such as a past date.
func InvalidDate(message string) *AppError {
	return &AppError{Code: ErrInvalidDate, Message: message}
}

// SlotTaken reports a race-lost booking. Distinct from Unavailable so the
// caller can suggest alternate times rather than alternate days.
func SlotTaken(message string) *AppError {
	return &AppError{Code: ErrSlotTaken, Message: message}
}

// IllegalTransition reports a workflow status change outside the entity's
// transition table. Rejected before any write.
func IllegalTransition(entity, from, to string) *AppError {
	return &AppError{
		Code:    ErrIllegalTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
	}
}

// Authorization reports a role or ownership mismatch. Fails closed.
func Authorization(message string) *AppError {
	return &AppError{Code: ErrAuthorization, Message: message}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// IsCode reports whether err wraps an AppError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
