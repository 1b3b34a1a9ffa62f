package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/models"
)

// ApprovalCodeKey is the unique index guarding approval codes
const ApprovalCodeKey = "UK_SERVICE_APPROVAL_CODE"

// IdempotencyKey is the unique index guarding caller supplied idempotency keys
const IdempotencyKey = "UK_SERVICE_APPROVAL_IDEMPOTENCY"

const serviceApprovalColumns = `
		ID, APPROVAL_CODE, USER_ID, HOSPITAL_ID, SERVICE_ID, SERVICE_NAME,
		SERVICE_DESCRIPTION, SERVICE_COST, COVERED_AMOUNT, PATIENT_AMOUNT,
		PRESCRIPTION_ID, PRESCRIPTION_TOTAL, CURRENT_STATUS, REJECTION_REASON,
		APPROVAL_DATE, COMPLETED_DATE, IDEMPOTENCY_KEY, VERSION, CREATED_AT, UPDATED_AT`

// ServiceApprovalDAO handles database operations for service approvals
type ServiceApprovalDAO struct {
	db       *database.DB
	statuses models.StatusMapping
}

// NewServiceApprovalDAO creates a new ServiceApprovalDAO. Statuses are written using the
// given mapping and read back through it.
func NewServiceApprovalDAO(db *database.DB, statuses models.StatusMapping) *ServiceApprovalDAO {
	return &ServiceApprovalDAO{
		db:       db,
		statuses: statuses,
	}
}

// CreateWithTx inserts a new service approval using a transaction
func (dao *ServiceApprovalDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval) error {
	query := `
		INSERT INTO SERVICE_APPROVAL (` + serviceApprovalColumns + `
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		approval.ID,
		approval.ApprovalCode,
		approval.UserID,
		approval.HospitalID,
		approval.ServiceID,
		approval.ServiceName,
		approval.ServiceDescription,
		approval.ServiceCost,
		approval.CoveredAmount,
		approval.PatientAmount,
		approval.PrescriptionID,
		approval.PrescriptionTotal,
		dao.statuses.Format(approval.Status),
		approval.RejectionReason,
		approval.ApprovalDate,
		approval.CompletedDate,
		approval.IdempotencyKey,
		approval.Version,
		approval.CreatedAt,
		approval.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service approval: %w", err)
	}

	return nil
}

// GetByID retrieves a service approval by ID. Returns nil when absent.
func (dao *ServiceApprovalDAO) GetByID(ctx context.Context, id int64) (*models.ServiceApproval, error) {
	query := `SELECT ` + serviceApprovalColumns + ` FROM SERVICE_APPROVAL WHERE ID = ?`
	return dao.getOne(ctx, dao.db, query, id)
}

// GetByCode retrieves a service approval by approval code. Returns nil when absent.
func (dao *ServiceApprovalDAO) GetByCode(ctx context.Context, approvalCode string) (*models.ServiceApproval, error) {
	query := `SELECT ` + serviceApprovalColumns + ` FROM SERVICE_APPROVAL WHERE APPROVAL_CODE = ?`
	return dao.getOne(ctx, dao.db, query, approvalCode)
}

// GetByCodeWithTx retrieves a service approval by approval code using a transaction
func (dao *ServiceApprovalDAO) GetByCodeWithTx(ctx context.Context, tx *database.Transaction, approvalCode string) (*models.ServiceApproval, error) {
	query := `SELECT ` + serviceApprovalColumns + ` FROM SERVICE_APPROVAL WHERE APPROVAL_CODE = ?`
	return dao.getOne(ctx, tx, query, approvalCode)
}

// GetByIdempotencyKey retrieves the approval created with the given idempotency key
func (dao *ServiceApprovalDAO) GetByIdempotencyKey(ctx context.Context, key string) (*models.ServiceApproval, error) {
	query := `SELECT ` + serviceApprovalColumns + ` FROM SERVICE_APPROVAL WHERE IDEMPOTENCY_KEY = ?`
	return dao.getOne(ctx, dao.db, query, key)
}

// ListByUserID retrieves a user's approvals newest first together with the total count
func (dao *ServiceApprovalDAO) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]models.ServiceApproval, int, error) {
	countQuery := `SELECT COUNT(*) FROM SERVICE_APPROVAL WHERE USER_ID = ?`
	var total int
	if err := dao.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count service approvals: %w", err)
	}

	query := `SELECT ` + serviceApprovalColumns + `
		FROM SERVICE_APPROVAL
		WHERE USER_ID = ?
		ORDER BY CREATED_AT DESC, ID DESC
		LIMIT ? OFFSET ?
	`

	approvals := []models.ServiceApproval{}
	if err := dao.db.SelectContext(ctx, &approvals, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list service approvals: %w", err)
	}

	for i := range approvals {
		if err := dao.normalize(&approvals[i]); err != nil {
			return nil, 0, err
		}
	}

	return approvals, total, nil
}

// UpdatePrescriptionWithTx stores the prescription fields, status and rejection reason of approval.
// The update only applies while the row still carries expectedVersion; the returned flag
// reports whether it did.
func (dao *ServiceApprovalDAO) UpdatePrescriptionWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval, expectedVersion int64) (bool, error) {
	query := `
		UPDATE SERVICE_APPROVAL
		SET PRESCRIPTION_ID = ?, PRESCRIPTION_TOTAL = ?, CURRENT_STATUS = ?, REJECTION_REASON = ?,
		    UPDATED_AT = ?, VERSION = VERSION + 1
		WHERE ID = ? AND VERSION = ?
	`

	result, err := tx.ExecContext(ctx, query,
		approval.PrescriptionID,
		approval.PrescriptionTotal,
		dao.statuses.Format(approval.Status),
		approval.RejectionReason,
		approval.UpdatedAt,
		approval.ID,
		expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update service approval prescription: %w", err)
	}

	return applied(result)
}

// UpdateStatusWithTx stores the status, rejection reason and completion date of approval,
// conditioned on expectedVersion like UpdatePrescriptionWithTx
func (dao *ServiceApprovalDAO) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval, expectedVersion int64) (bool, error) {
	query := `
		UPDATE SERVICE_APPROVAL
		SET CURRENT_STATUS = ?, REJECTION_REASON = ?, COMPLETED_DATE = ?,
		    UPDATED_AT = ?, VERSION = VERSION + 1
		WHERE ID = ? AND VERSION = ?
	`

	result, err := tx.ExecContext(ctx, query,
		dao.statuses.Format(approval.Status),
		approval.RejectionReason,
		approval.CompletedDate,
		approval.UpdatedAt,
		approval.ID,
		expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update service approval status: %w", err)
	}

	return applied(result)
}

func (dao *ServiceApprovalDAO) getOne(ctx context.Context, q queryer, query string, args ...interface{}) (*models.ServiceApproval, error) {
	var approval models.ServiceApproval
	if err := q.GetContext(ctx, &approval, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service approval: %w", err)
	}

	if err := dao.normalize(&approval); err != nil {
		return nil, err
	}
	return &approval, nil
}

// normalize maps the persisted status string back to an ApprovalStatus
func (dao *ServiceApprovalDAO) normalize(approval *models.ServiceApproval) error {
	status, err := dao.statuses.Parse(string(approval.Status))
	if err != nil {
		return fmt.Errorf("service approval %d: %w", approval.ID, err)
	}
	approval.Status = status
	approval.ApprovalDate = approval.ApprovalDate.UTC()
	approval.CreatedAt = approval.CreatedAt.UTC()
	approval.UpdatedAt = approval.UpdatedAt.UTC()
	if approval.CompletedDate != nil {
		completed := approval.CompletedDate.UTC()
		approval.CompletedDate = &completed
	}
	return nil
}

// queryer is satisfied by both *database.DB and *database.Transaction
type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func applied(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
