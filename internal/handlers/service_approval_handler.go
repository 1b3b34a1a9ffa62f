package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/serviceerror"
	"github.com/healthcover/service-approval-api/internal/utils"
)

// ApprovalWorkflow is the service approval lifecycle exposed over HTTP
type ApprovalWorkflow interface {
	RequestApproval(ctx context.Context, req *models.ServiceApprovalRequest) (*models.ServiceApprovalResult, *serviceerror.ServiceError)
	AttachPrescription(ctx context.Context, approvalCode string, req *models.PrescriptionRequest) (*models.PrescriptionResult, *serviceerror.ServiceError)
	CheckApprovalStatus(ctx context.Context, approvalCode string) (*models.ApprovalStatusResponse, *serviceerror.ServiceError)
	CompleteApproval(ctx context.Context, approvalCode string) (*models.ServiceApproval, *serviceerror.ServiceError)
	GetApprovalHistory(ctx context.Context, approvalCode string) ([]models.ApprovalStatusAudit, *serviceerror.ServiceError)
	ListUserApprovals(ctx context.Context, userID int64, limit, offset int) (*models.ApprovalListResponse, *serviceerror.ServiceError)
}

// ServiceApprovalHandler handles service approval HTTP requests
type ServiceApprovalHandler struct {
	approvals ApprovalWorkflow
}

// NewServiceApprovalHandler creates a new ServiceApprovalHandler
func NewServiceApprovalHandler(approvals ApprovalWorkflow) *ServiceApprovalHandler {
	return &ServiceApprovalHandler{
		approvals: approvals,
	}
}

// RequestApproval handles POST /service-approvals
func (h *ServiceApprovalHandler) RequestApproval(c *gin.Context) {
	var req models.ServiceApprovalRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.IdempotencyKey == nil {
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			req.IdempotencyKey = &key
		}
	}

	result, svcErr := h.approvals.RequestApproval(c.Request.Context(), &req)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	if result.Created {
		utils.SendCreatedResponse(c, result)
		return
	}
	utils.SendOKResponse(c, result)
}

// GetApprovalStatus handles GET /service-approvals/:approvalCode
func (h *ServiceApprovalHandler) GetApprovalStatus(c *gin.Context) {
	resp, svcErr := h.approvals.CheckApprovalStatus(c.Request.Context(), c.Param("approvalCode"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	utils.SendOKResponse(c, resp)
}

// AttachPrescription handles POST /service-approvals/:approvalCode/prescription.
// A threshold rejection is still a 200; the body carries success=false.
func (h *ServiceApprovalHandler) AttachPrescription(c *gin.Context) {
	var req models.PrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, svcErr := h.approvals.AttachPrescription(c.Request.Context(), c.Param("approvalCode"), &req)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	utils.SendOKResponse(c, result)
}

// CompleteApproval handles POST /service-approvals/:approvalCode/complete
func (h *ServiceApprovalHandler) CompleteApproval(c *gin.Context) {
	approval, svcErr := h.approvals.CompleteApproval(c.Request.Context(), c.Param("approvalCode"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	utils.SendOKResponse(c, approval.ToStatusResponse())
}

// GetApprovalHistory handles GET /service-approvals/:approvalCode/history
func (h *ServiceApprovalHandler) GetApprovalHistory(c *gin.Context) {
	history, svcErr := h.approvals.GetApprovalHistory(c.Request.Context(), c.Param("approvalCode"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	utils.SendOKResponse(c, gin.H{
		"approvalCode": c.Param("approvalCode"),
		"history":      history,
	})
}

// ListUserApprovals handles GET /users/:userId/service-approvals
func (h *ServiceApprovalHandler) ListUserApprovals(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		utils.SendValidationError(c, "userId must be a positive integer")
		return
	}

	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	resp, svcErr := h.approvals.ListUserApprovals(c.Request.Context(), userID, limit, offset)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	utils.SendOKResponse(c, resp)
}

// bindJSON binds the request body and writes the error response when it cannot
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		details, isValidation := bindingErrorDetails(err)
		if isValidation {
			utils.SendValidationError(c, details)
		} else {
			utils.SendBadRequestError(c, "Invalid request body", details)
		}
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.SendValidationError(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}
