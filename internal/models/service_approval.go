package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStatus is the lifecycle state of a service approval
type ApprovalStatus string

const (
	// ApprovalStatusPending is defined for completeness; approvals are created directly APPROVED
	ApprovalStatusPending ApprovalStatus = "PENDING"
	// ApprovalStatusApproved is the only state that accepts prescriptions and completion
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	// ApprovalStatusRejected is terminal
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
	// ApprovalStatusCompleted is terminal
	ApprovalStatusCompleted ApprovalStatus = "COMPLETED"
)

// legacy status strings written by older clients
const (
	legacyStatusRejected  = "RECHAZADO"
	legacyStatusCompleted = "COMPLETADO"
)

// RejectionReasonBelowMinimum is recorded when a prescription total is under the configured minimum
const RejectionReasonBelowMinimum = "prescription amount below minimum"

// ParseApprovalStatus converts a stored or submitted status string into an ApprovalStatus.
// Legacy aliases are folded into their canonical value.
func ParseApprovalStatus(value string) (ApprovalStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(ApprovalStatusPending):
		return ApprovalStatusPending, nil
	case string(ApprovalStatusApproved):
		return ApprovalStatusApproved, nil
	case string(ApprovalStatusRejected), legacyStatusRejected:
		return ApprovalStatusRejected, nil
	case string(ApprovalStatusCompleted), legacyStatusCompleted:
		return ApprovalStatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown approval status: %q", value)
	}
}

// IsTerminal reports whether no further transition is possible
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusRejected || s == ApprovalStatusCompleted
}

// StatusMapping holds the strings persisted for each ApprovalStatus
type StatusMapping struct {
	Pending   string
	Approved  string
	Rejected  string
	Completed string
}

// DefaultStatusMapping persists the canonical English names
func DefaultStatusMapping() StatusMapping {
	return StatusMapping{
		Pending:   string(ApprovalStatusPending),
		Approved:  string(ApprovalStatusApproved),
		Rejected:  string(ApprovalStatusRejected),
		Completed: string(ApprovalStatusCompleted),
	}
}

// Format returns the persisted representation of status
func (m StatusMapping) Format(status ApprovalStatus) string {
	switch status {
	case ApprovalStatusPending:
		return m.Pending
	case ApprovalStatusApproved:
		return m.Approved
	case ApprovalStatusRejected:
		return m.Rejected
	case ApprovalStatusCompleted:
		return m.Completed
	default:
		return string(status)
	}
}

// Parse resolves a persisted string, trying the configured names before the built-in vocabulary
func (m StatusMapping) Parse(value string) (ApprovalStatus, error) {
	trimmed := strings.TrimSpace(value)
	switch {
	case m.Approved != "" && strings.EqualFold(trimmed, m.Approved):
		return ApprovalStatusApproved, nil
	case m.Rejected != "" && strings.EqualFold(trimmed, m.Rejected):
		return ApprovalStatusRejected, nil
	case m.Completed != "" && strings.EqualFold(trimmed, m.Completed):
		return ApprovalStatusCompleted, nil
	case m.Pending != "" && strings.EqualFold(trimmed, m.Pending):
		return ApprovalStatusPending, nil
	}
	return ParseApprovalStatus(trimmed)
}

// ServiceApproval represents the SERVICE_APPROVAL table
type ServiceApproval struct {
	ID                 int64               `db:"ID" json:"id"`
	ApprovalCode       string              `db:"APPROVAL_CODE" json:"approvalCode"`
	UserID             int64               `db:"USER_ID" json:"userId"`
	HospitalID         int64               `db:"HOSPITAL_ID" json:"hospitalId"`
	ServiceID          string              `db:"SERVICE_ID" json:"serviceId"`
	ServiceName        string              `db:"SERVICE_NAME" json:"serviceName"`
	ServiceDescription *string             `db:"SERVICE_DESCRIPTION" json:"serviceDescription,omitempty"`
	ServiceCost        decimal.Decimal     `db:"SERVICE_COST" json:"serviceCost"`
	CoveredAmount      decimal.Decimal     `db:"COVERED_AMOUNT" json:"coveredAmount"`
	PatientAmount      decimal.Decimal     `db:"PATIENT_AMOUNT" json:"patientAmount"`
	PrescriptionID     *int64              `db:"PRESCRIPTION_ID" json:"prescriptionId,omitempty"`
	PrescriptionTotal  decimal.NullDecimal `db:"PRESCRIPTION_TOTAL" json:"prescriptionTotal,omitzero"`
	Status             ApprovalStatus      `db:"CURRENT_STATUS" json:"status"`
	RejectionReason    *string             `db:"REJECTION_REASON" json:"rejectionReason,omitempty"`
	ApprovalDate       time.Time           `db:"APPROVAL_DATE" json:"approvalDate"`
	CompletedDate      *time.Time          `db:"COMPLETED_DATE" json:"completedDate,omitempty"`
	IdempotencyKey     *string             `db:"IDEMPOTENCY_KEY" json:"-"`
	Version            int64               `db:"VERSION" json:"version"`
	CreatedAt          time.Time           `db:"CREATED_AT" json:"createdAt"`
	UpdatedAt          time.Time           `db:"UPDATED_AT" json:"updatedAt"`
}

// HasPrescription reports whether a prescription was attached
func (a *ServiceApproval) HasPrescription() bool {
	return a.PrescriptionID != nil
}

// ApprovalStatusAudit represents the SERVICE_APPROVAL_STATUS_AUDIT table
type ApprovalStatusAudit struct {
	StatusAuditID  string          `db:"STATUS_AUDIT_ID" json:"statusAuditId"`
	ApprovalID     int64           `db:"APPROVAL_ID" json:"approvalId"`
	CurrentStatus  ApprovalStatus  `db:"CURRENT_STATUS" json:"currentStatus"`
	PreviousStatus *ApprovalStatus `db:"PREVIOUS_STATUS" json:"previousStatus,omitempty"`
	Reason         *string         `db:"REASON" json:"reason,omitempty"`
	ActionTime     time.Time       `db:"ACTION_TIME" json:"actionTime"`
}

// ServiceApprovalRequest is the input of a service approval request
type ServiceApprovalRequest struct {
	UserID             int64           `json:"userId" binding:"required,gt=0"`
	HospitalID         int64           `json:"hospitalId" binding:"required,gt=0"`
	ServiceID          string          `json:"serviceId" binding:"required,max=64"`
	ServiceName        string          `json:"serviceName" binding:"required,max=255"`
	ServiceDescription *string         `json:"serviceDescription,omitempty" binding:"omitempty,max=1024"`
	ServiceCost        decimal.Decimal `json:"serviceCost" binding:"nonneg_decimal"`
	IdempotencyKey     *string         `json:"idempotencyKey,omitempty" binding:"omitempty,max=128"`
}

// ServiceApprovalResult is returned after a service approval request
type ServiceApprovalResult struct {
	Success       bool            `json:"success"`
	Created       bool            `json:"created"`
	ApprovalID    int64           `json:"approvalId"`
	ApprovalCode  string          `json:"approvalCode"`
	Status        ApprovalStatus  `json:"status"`
	ServiceCost   decimal.Decimal `json:"serviceCost"`
	CoveredAmount decimal.Decimal `json:"coveredAmount"`
	PatientAmount decimal.Decimal `json:"patientAmount"`
	ApprovalDate  time.Time       `json:"approvalDate"`
	Message       string          `json:"message"`
}

// PrescriptionRequest is the input for attaching a prescription to an approval
type PrescriptionRequest struct {
	PrescriptionID    int64           `json:"prescriptionId" binding:"required,gt=0"`
	PrescriptionTotal decimal.Decimal `json:"prescriptionTotal" binding:"nonneg_decimal"`
}

// PrescriptionResult reports the business outcome of a prescription attachment
type PrescriptionResult struct {
	Success           bool            `json:"success"`
	ApprovalCode      string          `json:"approvalCode"`
	Status            ApprovalStatus  `json:"status"`
	PrescriptionID    int64           `json:"prescriptionId"`
	PrescriptionTotal decimal.Decimal `json:"prescriptionTotal"`
	MinimumAmount     decimal.Decimal `json:"minimumAmount"`
	CoveredAmount     decimal.Decimal `json:"coveredAmount"`
	PatientAmount     decimal.Decimal `json:"patientAmount"`
	RejectionReason   *string         `json:"rejectionReason,omitempty"`
	Message           string          `json:"message"`
}

// ApprovalStatusResponse is the status view of an approval.
// Prescription fields are present only once attached; the rejection reason only when rejected.
type ApprovalStatusResponse struct {
	ApprovalID         int64               `json:"approvalId"`
	ApprovalCode       string              `json:"approvalCode"`
	UserID             int64               `json:"userId"`
	HospitalID         int64               `json:"hospitalId"`
	ServiceID          string              `json:"serviceId"`
	ServiceName        string              `json:"serviceName"`
	ServiceDescription *string             `json:"serviceDescription,omitempty"`
	ServiceCost        decimal.Decimal     `json:"serviceCost"`
	CoveredAmount      decimal.Decimal     `json:"coveredAmount"`
	PatientAmount      decimal.Decimal     `json:"patientAmount"`
	Status             ApprovalStatus      `json:"status"`
	ApprovalDate       time.Time           `json:"approvalDate"`
	CompletedDate      *time.Time          `json:"completedDate,omitempty"`
	PrescriptionID     *int64              `json:"prescriptionId,omitempty"`
	PrescriptionTotal  decimal.NullDecimal `json:"prescriptionTotal,omitzero"`
	RejectionReason    *string             `json:"rejectionReason,omitempty"`
}

// ToStatusResponse builds the status view of an approval
func (a *ServiceApproval) ToStatusResponse() *ApprovalStatusResponse {
	resp := &ApprovalStatusResponse{
		ApprovalID:         a.ID,
		ApprovalCode:       a.ApprovalCode,
		UserID:             a.UserID,
		HospitalID:         a.HospitalID,
		ServiceID:          a.ServiceID,
		ServiceName:        a.ServiceName,
		ServiceDescription: a.ServiceDescription,
		ServiceCost:        a.ServiceCost,
		CoveredAmount:      a.CoveredAmount,
		PatientAmount:      a.PatientAmount,
		Status:             a.Status,
		ApprovalDate:       a.ApprovalDate,
		CompletedDate:      a.CompletedDate,
	}
	if a.HasPrescription() {
		resp.PrescriptionID = a.PrescriptionID
		resp.PrescriptionTotal = a.PrescriptionTotal
	}
	if a.Status == ApprovalStatusRejected {
		resp.RejectionReason = a.RejectionReason
	}
	return resp
}

// ApprovalListResponse is a page of a user's approvals
type ApprovalListResponse struct {
	Approvals []ApprovalStatusResponse `json:"approvals"`
	Total     int                      `json:"total"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}
