package models

import (
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeIneligible      = "INELIGIBLE"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
)

// HTTPStatusForErrorCode returns the appropriate HTTP status code for an error code
func HTTPStatusForErrorCode(code string) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationError, ErrCodeIneligible, ErrCodeInvalidStatus:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInternalError, ErrCodeDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
