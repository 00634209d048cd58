package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeConflict   ErrorCode = "CONFLICT"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeTransport  ErrorCode = "TRANSPORT_ERROR"
	ErrCodeServer     ErrorCode = "SERVER_ERROR"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeAuth       ErrorCode = "UNAUTHORIZED"
)

// AppError is an error with a code that maps to an HTTP status and a message safe to show to visitors.
// Fields carries per-field messages for validation errors.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Fields     map[string]string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on code so that wrapped sentinel errors compare equal.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation builds a validation error carrying one message per invalid field.
func Validation(fields map[string]string) *AppError {
	e := New(ErrCodeValidation, "please check the highlighted fields")
	e.Fields = fields
	return e
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeAuth:
		return http.StatusUnauthorized
	case ErrCodeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// StatusOf returns the HTTP status for err, 500 for anything that is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

var (
	ErrSessionNotFound = New(ErrCodeNotFound, "page session not found")
	ErrUnknownCategory = New(ErrCodeValidation, "unknown project category")
	ErrBusy            = New(ErrCodeConflict, "a message is already being sent")
	ErrUnauthorized    = New(ErrCodeAuth, "authentication required")
	ErrInvalidLogin    = New(ErrCodeAuth, "invalid credentials")
	ErrCVUnavailable   = New(ErrCodeNotFound, "CV is not available")
)
