package serviceerror

import "fmt"

type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

// ServiceError is returned by services instead of a plain error so handlers can
// tell caller mistakes apart from failures of the service itself
type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Error            string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
}

var (
	InternalServerError = ServiceError{
		Type:             ServerErrorType,
		Code:             "INTERNAL_ERROR",
		Error:            "internal_server_error",
		ErrorDescription: "An unexpected error occurred",
	}

	DatabaseError = ServiceError{
		Type:             ServerErrorType,
		Code:             "DATABASE_ERROR",
		Error:            "database_error",
		ErrorDescription: "A database error occurred",
	}

	InvalidRequestError = ServiceError{
		Type:             ClientErrorType,
		Code:             "BAD_REQUEST",
		Error:            "invalid_request",
		ErrorDescription: "The request is invalid",
	}

	ValidationError = ServiceError{
		Type:             ClientErrorType,
		Code:             "VALIDATION_ERROR",
		Error:            "validation_error",
		ErrorDescription: "Validation failed",
	}

	ResourceNotFoundError = ServiceError{
		Type:             ClientErrorType,
		Code:             "NOT_FOUND",
		Error:            "resource_not_found",
		ErrorDescription: "Resource not found",
	}

	ConflictError = ServiceError{
		Type:             ClientErrorType,
		Code:             "CONFLICT",
		Error:            "conflict",
		ErrorDescription: "Request conflicts with current state",
	}

	IneligibleError = ServiceError{
		Type:             ClientErrorType,
		Code:             "INELIGIBLE",
		Error:            "not_eligible",
		ErrorDescription: "User is not eligible for service approval",
	}

	InvalidStatusError = ServiceError{
		Type:             ClientErrorType,
		Code:             "INVALID_STATUS",
		Error:            "invalid_status",
		ErrorDescription: "Operation not allowed in the current status",
	}
)

// CustomServiceError copies baseError with a request specific description
func CustomServiceError(baseError ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Error:            baseError.Error,
		ErrorDescription: description,
	}
}

// CustomServiceErrorf is CustomServiceError with a formatted description
func CustomServiceErrorf(baseError ServiceError, format string, args ...interface{}) *ServiceError {
	return CustomServiceError(baseError, fmt.Sprintf(format, args...))
}

// IsClientError reports whether the error was caused by the caller
func (e *ServiceError) IsClientError() bool {
	return e != nil && e.Type == ClientErrorType
}

// Is reports whether e carries the same code as target
func (e *ServiceError) Is(target ServiceError) bool {
	return e != nil && e.Code == target.Code
}
