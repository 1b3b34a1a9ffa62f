package dao

import (
	"context"
	"fmt"

	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/models"
)

// StatusAuditDAO handles database operations for service approval status audit
type StatusAuditDAO struct {
	db       *database.DB
	statuses models.StatusMapping
}

// NewStatusAuditDAO creates a new StatusAuditDAO instance
func NewStatusAuditDAO(db *database.DB, statuses models.StatusMapping) *StatusAuditDAO {
	return &StatusAuditDAO{
		db:       db,
		statuses: statuses,
	}
}

// CreateWithTx inserts a new status audit record using a transaction
func (dao *StatusAuditDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.ApprovalStatusAudit) error {
	query := `
		INSERT INTO SERVICE_APPROVAL_STATUS_AUDIT (
			STATUS_AUDIT_ID, APPROVAL_ID, CURRENT_STATUS, PREVIOUS_STATUS, REASON, ACTION_TIME
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var previous *string
	if audit.PreviousStatus != nil {
		p := dao.statuses.Format(*audit.PreviousStatus)
		previous = &p
	}

	_, err := tx.ExecContext(
		ctx,
		query,
		audit.StatusAuditID,
		audit.ApprovalID,
		dao.statuses.Format(audit.CurrentStatus),
		previous,
		audit.Reason,
		audit.ActionTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create status audit with transaction: %w", err)
	}

	return nil
}

// GetByApprovalID retrieves all status audit records of an approval, newest first
func (dao *StatusAuditDAO) GetByApprovalID(ctx context.Context, approvalID int64) ([]models.ApprovalStatusAudit, error) {
	query := `
		SELECT STATUS_AUDIT_ID, APPROVAL_ID, CURRENT_STATUS, PREVIOUS_STATUS, REASON, ACTION_TIME
		FROM SERVICE_APPROVAL_STATUS_AUDIT
		WHERE APPROVAL_ID = ?
		ORDER BY ACTION_TIME DESC
	`

	audits := []models.ApprovalStatusAudit{}
	if err := dao.db.SelectContext(ctx, &audits, query, approvalID); err != nil {
		return nil, fmt.Errorf("failed to get status audits by approval ID: %w", err)
	}

	for i := range audits {
		current, err := dao.statuses.Parse(string(audits[i].CurrentStatus))
		if err != nil {
			return nil, fmt.Errorf("status audit %s: %w", audits[i].StatusAuditID, err)
		}
		audits[i].CurrentStatus = current

		if audits[i].PreviousStatus != nil {
			previous, err := dao.statuses.Parse(string(*audits[i].PreviousStatus))
			if err != nil {
				return nil, fmt.Errorf("status audit %s: %w", audits[i].StatusAuditID, err)
			}
			audits[i].PreviousStatus = &previous
		}
		audits[i].ActionTime = audits[i].ActionTime.UTC()
	}

	return audits, nil
}
