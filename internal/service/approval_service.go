package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/healthcover/service-approval-api/internal/config"
	"github.com/healthcover/service-approval-api/internal/dao"
	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/idgen"
	"github.com/healthcover/service-approval-api/internal/lock"
	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/serviceerror"
	"github.com/healthcover/service-approval-api/pkg/utils"
)

// ApprovalStore is the approval ledger
type ApprovalStore interface {
	CreateWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval) error
	GetByID(ctx context.Context, id int64) (*models.ServiceApproval, error)
	GetByCode(ctx context.Context, approvalCode string) (*models.ServiceApproval, error)
	GetByCodeWithTx(ctx context.Context, tx *database.Transaction, approvalCode string) (*models.ServiceApproval, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.ServiceApproval, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]models.ServiceApproval, int, error)
	UpdatePrescriptionWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval, expectedVersion int64) (bool, error)
	UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval, expectedVersion int64) (bool, error)
}

// StatusAuditStore records approval status changes
type StatusAuditStore interface {
	CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.ApprovalStatusAudit) error
	GetByApprovalID(ctx context.Context, approvalID int64) ([]models.ApprovalStatusAudit, error)
}

// UserRepository looks up users with their policy
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// HospitalRepository looks up hospitals
type HospitalRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Hospital, error)
}

// ConfigReader provides typed reads of system configuration
type ConfigReader interface {
	GetDecimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal
}

// TransactionManager runs a function inside a database transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(*database.Transaction) error) error
}

// errAborted rolls back a transaction whose outcome is carried by a ServiceError
var errAborted = errors.New("unit of work aborted")

var defaultMinPrescriptionAmount = decimal.RequireFromString(models.DefaultMinPrescriptionAmount)

// ApprovalService drives service approvals through their lifecycle
type ApprovalService struct {
	approvals ApprovalStore
	audits    StatusAuditStore
	users     UserRepository
	hospitals HospitalRepository
	configs   ConfigReader
	txManager TransactionManager
	locker    lock.Locker
	ids       idgen.Generator
	cfg       config.ApprovalConfig
	logger    *logrus.Logger

	now     func() time.Time
	newCode func() string
}

// NewApprovalService creates a new ApprovalService. A nil locker disables transition locking.
func NewApprovalService(
	approvals ApprovalStore,
	audits StatusAuditStore,
	users UserRepository,
	hospitals HospitalRepository,
	configs ConfigReader,
	txManager TransactionManager,
	locker lock.Locker,
	ids idgen.Generator,
	cfg config.ApprovalConfig,
	logger *logrus.Logger,
) *ApprovalService {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if cfg.CodeMaxAttempts < 1 {
		cfg.CodeMaxAttempts = 1
	}
	return &ApprovalService{
		approvals: approvals,
		audits:    audits,
		users:     users,
		hospitals: hospitals,
		configs:   configs,
		txManager: txManager,
		locker:    locker,
		ids:       ids,
		cfg:       cfg,
		logger:    logger,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
		newCode: utils.GenerateApprovalCode,
	}
}

// CoverageSplit divides cost into the insurer covered and patient owed amounts.
// The covered amount is rounded to cents and the patient pays the exact remainder.
func CoverageSplit(cost decimal.Decimal, coveragePercentage float64) (covered, patient decimal.Decimal) {
	pct := decimal.NewFromFloat(coveragePercentage)
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		pct = decimal.NewFromInt(100)
	}

	covered = cost.Mul(pct).Div(decimal.NewFromInt(100)).Round(utils.MoneyScale)
	patient = cost.Sub(covered)
	return covered, patient
}

// RequestApproval creates a new APPROVED service approval for an eligible user
func (s *ApprovalService) RequestApproval(ctx context.Context, req *models.ServiceApprovalRequest) (*models.ServiceApprovalResult, *serviceerror.ServiceError) {
	if svcErr := validateApprovalRequest(req); svcErr != nil {
		return nil, svcErr
	}

	idempotencyKey := normalizeIdempotencyKey(req.IdempotencyKey)
	if idempotencyKey != nil {
		existing, err := s.approvals.GetByIdempotencyKey(ctx, *idempotencyKey)
		if err != nil {
			s.logger.WithError(err).Error("Failed to look up idempotency key")
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to check for an existing approval")
		}
		if existing != nil {
			return s.replay(existing, req, *idempotencyKey)
		}
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to look up user")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to look up user")
	}
	if user == nil {
		return nil, serviceerror.CustomServiceErrorf(serviceerror.ResourceNotFoundError, "User not found: %d", req.UserID)
	}

	hospital, err := s.hospitals.FindByID(ctx, req.HospitalID)
	if err != nil {
		s.logger.WithError(err).WithField("hospital_id", req.HospitalID).Error("Failed to look up hospital")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to look up hospital")
	}
	if hospital == nil {
		return nil, serviceerror.CustomServiceErrorf(serviceerror.ResourceNotFoundError, "Hospital not found: %d", req.HospitalID)
	}

	now := s.now()
	if svcErr := CheckEligibility(user, now, &s.cfg); svcErr != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": req.UserID,
			"reason":  svcErr.ErrorDescription,
		}).Info("Service approval refused, user not eligible")
		return nil, svcErr
	}

	covered, patient := CoverageSplit(req.ServiceCost, user.Policy.CoveragePercentage)

	for attempt := 1; attempt <= s.cfg.CodeMaxAttempts; attempt++ {
		id, err := s.ids.NextID()
		if err != nil {
			s.logger.WithError(err).Error("Failed to generate service approval id")
			return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "Failed to generate approval id")
		}

		approval := &models.ServiceApproval{
			ID:                 id,
			ApprovalCode:       s.newCode(),
			UserID:             req.UserID,
			HospitalID:         req.HospitalID,
			ServiceID:          strings.TrimSpace(req.ServiceID),
			ServiceName:        strings.TrimSpace(req.ServiceName),
			ServiceDescription: req.ServiceDescription,
			ServiceCost:        req.ServiceCost,
			CoveredAmount:      covered,
			PatientAmount:      patient,
			Status:             models.ApprovalStatusApproved,
			ApprovalDate:       now,
			IdempotencyKey:     idempotencyKey,
			Version:            1,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		err = s.txManager.WithTransaction(ctx, func(tx *database.Transaction) error {
			if err := s.approvals.CreateWithTx(ctx, tx, approval); err != nil {
				return err
			}
			return s.audits.CreateWithTx(ctx, tx, &models.ApprovalStatusAudit{
				StatusAuditID: utils.GenerateAuditID(),
				ApprovalID:    approval.ID,
				CurrentStatus: approval.Status,
				ActionTime:    now,
			})
		})

		switch {
		case err == nil:
			s.logger.WithFields(logrus.Fields{
				"approval_id":    approval.ID,
				"approval_code":  approval.ApprovalCode,
				"user_id":        approval.UserID,
				"hospital_id":    approval.HospitalID,
				"service_cost":   approval.ServiceCost.StringFixed(utils.MoneyScale),
				"covered_amount": approval.CoveredAmount.StringFixed(utils.MoneyScale),
			}).Info("Service approval created")
			return buildApprovalResult(approval, true), nil

		case database.IsDuplicateKeyError(err, dao.ApprovalCodeKey):
			s.logger.WithFields(logrus.Fields{
				"approval_code": approval.ApprovalCode,
				"attempt":       attempt,
			}).Warn("Approval code collision, regenerating")
			continue

		case idempotencyKey != nil && database.IsDuplicateKeyError(err, dao.IdempotencyKey):
			existing, getErr := s.approvals.GetByIdempotencyKey(ctx, *idempotencyKey)
			if getErr != nil || existing == nil {
				s.logger.WithError(getErr).Error("Failed to read concurrent approval for idempotency key")
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to read existing approval")
			}
			return s.replay(existing, req, *idempotencyKey)

		default:
			s.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to create service approval")
			return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to create service approval")
		}
	}

	s.logger.WithField("attempts", s.cfg.CodeMaxAttempts).Error("Exhausted approval code attempts")
	return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "Failed to allocate a unique approval code")
}

// AttachPrescription links a prescription to an APPROVED approval. A total below the configured
// minimum rejects the approval; that outcome is reported in the result, not as an error.
func (s *ApprovalService) AttachPrescription(ctx context.Context, approvalCode string, req *models.PrescriptionRequest) (*models.PrescriptionResult, *serviceerror.ServiceError) {
	approvalCode, svcErr := checkApprovalCode(approvalCode)
	if svcErr != nil {
		return nil, svcErr
	}
	if req.PrescriptionID <= 0 {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "prescriptionId must be positive")
	}
	if err := utils.ValidateMoney("prescriptionTotal", req.PrescriptionTotal); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	unlock, svcErr := s.acquire(ctx, approvalCode)
	if svcErr != nil {
		return nil, svcErr
	}
	defer unlock()

	threshold := s.configs.GetDecimal(ctx, models.ConfigKeyMinPrescriptionAmount, defaultMinPrescriptionAmount)

	var approval *models.ServiceApproval
	err := s.txManager.WithTransaction(ctx, func(tx *database.Transaction) error {
		var err error
		approval, err = s.approvals.GetByCodeWithTx(ctx, tx, approvalCode)
		if err != nil {
			return err
		}
		if approval == nil {
			svcErr = serviceerror.CustomServiceErrorf(serviceerror.ResourceNotFoundError, "Service approval not found: %s", approvalCode)
			return errAborted
		}
		if approval.Status != models.ApprovalStatusApproved {
			svcErr = wrongStatus(approval, "is not eligible for prescription attachment")
			return errAborted
		}

		previous := approval.Status
		expectedVersion := approval.Version
		prescriptionID := req.PrescriptionID

		approval.PrescriptionID = &prescriptionID
		approval.PrescriptionTotal = decimal.NewNullDecimal(req.PrescriptionTotal)
		approval.UpdatedAt = s.now()
		if req.PrescriptionTotal.LessThan(threshold) {
			reason := models.RejectionReasonBelowMinimum
			approval.Status = models.ApprovalStatusRejected
			approval.RejectionReason = &reason
		}

		ok, err := s.approvals.UpdatePrescriptionWithTx(ctx, tx, approval, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			svcErr = s.lostUpdate(ctx, approval)
			return errAborted
		}
		approval.Version = expectedVersion + 1

		if approval.Status != previous {
			return s.audits.CreateWithTx(ctx, tx, &models.ApprovalStatusAudit{
				StatusAuditID:  utils.GenerateAuditID(),
				ApprovalID:     approval.ID,
				CurrentStatus:  approval.Status,
				PreviousStatus: &previous,
				Reason:         approval.RejectionReason,
				ActionTime:     approval.UpdatedAt,
			})
		}
		return nil
	})
	if svcErr != nil {
		return nil, svcErr
	}
	if err != nil {
		s.logger.WithError(err).WithField("approval_code", approvalCode).Error("Failed to attach prescription")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to attach prescription")
	}

	result := &models.PrescriptionResult{
		Success:           approval.Status == models.ApprovalStatusApproved,
		ApprovalCode:      approval.ApprovalCode,
		Status:            approval.Status,
		PrescriptionID:    req.PrescriptionID,
		PrescriptionTotal: req.PrescriptionTotal,
		MinimumAmount:     threshold,
		CoveredAmount:     approval.CoveredAmount,
		PatientAmount:     approval.PatientAmount,
		RejectionReason:   approval.RejectionReason,
	}
	if result.Success {
		result.Message = "Prescription attached to service approval"
	} else {
		result.Message = "Service approval rejected: " + models.RejectionReasonBelowMinimum
	}

	s.logger.WithFields(logrus.Fields{
		"approval_code":      approvalCode,
		"prescription_id":    req.PrescriptionID,
		"prescription_total": req.PrescriptionTotal.StringFixed(utils.MoneyScale),
		"status":             approval.Status,
	}).Info("Prescription processed for service approval")

	return result, nil
}

// CheckApprovalStatus returns the current view of an approval
func (s *ApprovalService) CheckApprovalStatus(ctx context.Context, approvalCode string) (*models.ApprovalStatusResponse, *serviceerror.ServiceError) {
	approval, svcErr := s.getByCode(ctx, approvalCode)
	if svcErr != nil {
		return nil, svcErr
	}
	return approval.ToStatusResponse(), nil
}

// CompleteApproval moves an APPROVED approval to COMPLETED
func (s *ApprovalService) CompleteApproval(ctx context.Context, approvalCode string) (*models.ServiceApproval, *serviceerror.ServiceError) {
	approvalCode, svcErr := checkApprovalCode(approvalCode)
	if svcErr != nil {
		return nil, svcErr
	}

	unlock, svcErr := s.acquire(ctx, approvalCode)
	if svcErr != nil {
		return nil, svcErr
	}
	defer unlock()

	var approval *models.ServiceApproval
	err := s.txManager.WithTransaction(ctx, func(tx *database.Transaction) error {
		var err error
		approval, err = s.approvals.GetByCodeWithTx(ctx, tx, approvalCode)
		if err != nil {
			return err
		}
		if approval == nil {
			svcErr = serviceerror.CustomServiceErrorf(serviceerror.ResourceNotFoundError, "Service approval not found: %s", approvalCode)
			return errAborted
		}
		if approval.Status != models.ApprovalStatusApproved {
			svcErr = wrongStatus(approval, "is not in an approvable state for completion")
			return errAborted
		}

		previous := approval.Status
		expectedVersion := approval.Version
		completed := s.now()

		approval.Status = models.ApprovalStatusCompleted
		approval.CompletedDate = &completed
		approval.UpdatedAt = completed

		ok, err := s.approvals.UpdateStatusWithTx(ctx, tx, approval, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			svcErr = s.lostUpdate(ctx, approval)
			return errAborted
		}
		approval.Version = expectedVersion + 1

		return s.audits.CreateWithTx(ctx, tx, &models.ApprovalStatusAudit{
			StatusAuditID:  utils.GenerateAuditID(),
			ApprovalID:     approval.ID,
			CurrentStatus:  approval.Status,
			PreviousStatus: &previous,
			ActionTime:     completed,
		})
	})
	if svcErr != nil {
		return nil, svcErr
	}
	if err != nil {
		s.logger.WithError(err).WithField("approval_code", approvalCode).Error("Failed to complete service approval")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to complete service approval")
	}

	s.logger.WithField("approval_code", approvalCode).Info("Service approval completed")
	return approval, nil
}

// GetApprovalHistory returns the status changes of an approval, newest first
func (s *ApprovalService) GetApprovalHistory(ctx context.Context, approvalCode string) ([]models.ApprovalStatusAudit, *serviceerror.ServiceError) {
	approval, svcErr := s.getByCode(ctx, approvalCode)
	if svcErr != nil {
		return nil, svcErr
	}

	audits, err := s.audits.GetByApprovalID(ctx, approval.ID)
	if err != nil {
		s.logger.WithError(err).WithField("approval_code", approval.ApprovalCode).Error("Failed to get approval history")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to get approval history")
	}
	return audits, nil
}

// ListUserApprovals returns a page of a user's approvals, newest first
func (s *ApprovalService) ListUserApprovals(ctx context.Context, userID int64, limit, offset int) (*models.ApprovalListResponse, *serviceerror.ServiceError) {
	if userID <= 0 {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, "userId must be positive")
	}
	limit = utils.ValidateLimit(limit)
	offset = utils.ValidateOffset(offset)

	approvals, total, err := s.approvals.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to list service approvals")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to list service approvals")
	}

	resp := &models.ApprovalListResponse{
		Approvals: make([]models.ApprovalStatusResponse, 0, len(approvals)),
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	}
	for i := range approvals {
		resp.Approvals = append(resp.Approvals, *approvals[i].ToStatusResponse())
	}
	return resp, nil
}

func (s *ApprovalService) getByCode(ctx context.Context, approvalCode string) (*models.ServiceApproval, *serviceerror.ServiceError) {
	approvalCode, svcErr := checkApprovalCode(approvalCode)
	if svcErr != nil {
		return nil, svcErr
	}
	approval, err := s.approvals.GetByCode(ctx, approvalCode)
	if err != nil {
		s.logger.WithError(err).WithField("approval_code", approvalCode).Error("Failed to get service approval")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to get service approval")
	}
	if approval == nil {
		return nil, serviceerror.CustomServiceErrorf(serviceerror.ResourceNotFoundError, "Service approval not found: %s", approvalCode)
	}
	return approval, nil
}

// acquire takes the transition lock for approvalCode and returns its release function
func (s *ApprovalService) acquire(ctx context.Context, approvalCode string) (func(), *serviceerror.ServiceError) {
	token, ok, err := s.locker.TryLock(ctx, approvalCode, s.cfg.LockTTL)
	if err != nil {
		s.logger.WithError(err).WithField("approval_code", approvalCode).Error("Failed to acquire approval lock")
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "Failed to lock service approval")
	}
	if !ok {
		return nil, serviceerror.CustomServiceErrorf(serviceerror.ConflictError,
			"Service approval %s is being modified by another request", approvalCode)
	}

	return func() {
		// the caller's context may already be cancelled
		if err := s.locker.Unlock(context.WithoutCancel(ctx), approvalCode, token); err != nil {
			s.logger.WithError(err).WithField("approval_code", approvalCode).Warn("Failed to release approval lock")
		}
	}, nil
}

// lostUpdate explains why a conditional update matched no row
func (s *ApprovalService) lostUpdate(ctx context.Context, approval *models.ServiceApproval) *serviceerror.ServiceError {
	current, err := s.approvals.GetByID(ctx, approval.ID)
	if err != nil || current == nil {
		s.logger.WithError(err).WithField("approval_code", approval.ApprovalCode).Error("Service approval vanished during update")
		return serviceerror.CustomServiceErrorf(serviceerror.InternalServerError,
			"Service approval %s could not be updated", approval.ApprovalCode)
	}

	s.logger.WithFields(logrus.Fields{
		"approval_code":  approval.ApprovalCode,
		"current_status": current.Status,
	}).Warn("Concurrent update detected on service approval")
	return serviceerror.CustomServiceErrorf(serviceerror.ConflictError,
		"Service approval %s was modified concurrently (status %s)", approval.ApprovalCode, current.Status)
}

func wrongStatus(approval *models.ServiceApproval, problem string) *serviceerror.ServiceError {
	detail := "status " + string(approval.Status)
	if approval.Status.IsTerminal() {
		detail = "already " + string(approval.Status)
	}
	return serviceerror.CustomServiceErrorf(serviceerror.InvalidStatusError,
		"Service approval %s %s (%s)", approval.ApprovalCode, problem, detail)
}

func validateApprovalRequest(req *models.ServiceApprovalRequest) *serviceerror.ServiceError {
	if req.UserID <= 0 {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, "userId must be positive")
	}
	if req.HospitalID <= 0 {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, "hospitalId must be positive")
	}
	if err := utils.ValidateRequired("serviceId", req.ServiceID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateRequired("serviceName", req.ServiceName); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateMoney("serviceCost", req.ServiceCost); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	return nil
}

// replay returns the approval stored under an idempotency key, provided it was created for the same request
func (s *ApprovalService) replay(existing *models.ServiceApproval, req *models.ServiceApprovalRequest, key string) (*models.ServiceApprovalResult, *serviceerror.ServiceError) {
	if existing.UserID != req.UserID ||
		existing.HospitalID != req.HospitalID ||
		existing.ServiceID != strings.TrimSpace(req.ServiceID) {
		s.logger.WithFields(logrus.Fields{
			"approval_code":   existing.ApprovalCode,
			"idempotency_key": key,
		}).Warn("Idempotency key reused for a different request")
		return nil, serviceerror.CustomServiceErrorf(serviceerror.ConflictError,
			"Idempotency key %s was already used for a different service approval request", key)
	}

	s.logger.WithFields(logrus.Fields{
		"approval_code":   existing.ApprovalCode,
		"idempotency_key": key,
	}).Info("Returning existing service approval for idempotency key")
	return buildApprovalResult(existing, false), nil
}

func buildApprovalResult(approval *models.ServiceApproval, created bool) *models.ServiceApprovalResult {
	message := "Service approval created"
	if !created {
		message = "Service approval already exists for this idempotency key"
	}
	return &models.ServiceApprovalResult{
		Success:       true,
		Created:       created,
		ApprovalID:    approval.ID,
		ApprovalCode:  approval.ApprovalCode,
		Status:        approval.Status,
		ServiceCost:   approval.ServiceCost,
		CoveredAmount: approval.CoveredAmount,
		PatientAmount: approval.PatientAmount,
		ApprovalDate:  approval.ApprovalDate,
		Message:       message,
	}
}

func normalizeApprovalCode(code string) string {
	return strings.ToUpper(utils.SanitizeString(code))
}

// checkApprovalCode normalizes code. A code that cannot have been issued is reported as not found.
func checkApprovalCode(code string) (string, *serviceerror.ServiceError) {
	code = normalizeApprovalCode(code)
	if err := utils.ValidateApprovalCode(code); err != nil {
		return "", serviceerror.CustomServiceErrorf(serviceerror.ResourceNotFoundError, "Service approval not found: %s", code)
	}
	return code, nil
}

func normalizeIdempotencyKey(key *string) *string {
	if key == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*key)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
