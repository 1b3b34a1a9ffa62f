package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/serviceerror"
)

// CorrelationIDKey is the gin context key holding the request correlation ID
const CorrelationIDKey = "correlation_id"

// CorrelationIDHeader carries the correlation ID on requests and responses
const CorrelationIDHeader = "X-Correlation-ID"

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.NewErrorResponse(errCode, message, details))
}

// SendServiceError maps a service error to its HTTP status and sends it
func SendServiceError(c *gin.Context, svcErr *serviceerror.ServiceError) {
	statusCode := models.HTTPStatusForErrorCode(svcErr.Code)
	if !svcErr.IsClientError() {
		statusCode = http.StatusInternalServerError
	}
	SendErrorResponse(c, statusCode, svcErr.Code, svcErr.Error, svcErr.ErrorDescription)
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendNoContentResponse sends a 204 No Content response
func SendNoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeBadRequest, message, details)
}

// SendNotFoundError sends a 404 Not Found error
func SendNotFoundError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusNotFound, models.ErrCodeNotFound, message, "")
}

// SendValidationError sends a validation error response
func SendValidationError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeValidationError, "Validation failed", details)
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(c *gin.Context) string {
	correlationID, exists := c.Get(CorrelationIDKey)
	if !exists {
		return uuid.New().String()
	}
	return correlationID.(string)
}
