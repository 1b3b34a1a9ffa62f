package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthcover/service-approval-api/internal/models"
)

func TestStatusAuditDAO_CreateWithTx(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewStatusAuditDAO(db, spanishMapping())
	tx := beginTx(t, db, mock)

	previous := models.ApprovalStatusApproved
	reason := models.RejectionReasonBelowMinimum
	audit := &models.ApprovalStatusAudit{
		StatusAuditID:  "AUDIT-1",
		ApprovalID:     101,
		CurrentStatus:  models.ApprovalStatusRejected,
		PreviousStatus: &previous,
		Reason:         &reason,
		ActionTime:     fixedTime,
	}

	mock.ExpectExec("INSERT INTO SERVICE_APPROVAL_STATUS_AUDIT").
		WithArgs("AUDIT-1", int64(101), "RECHAZADO", "APROBADO", reason, fixedTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := dao.CreateWithTx(context.Background(), tx, audit)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAuditDAO_CreateWithTx_NoPrevious(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewStatusAuditDAO(db, models.DefaultStatusMapping())
	tx := beginTx(t, db, mock)

	mock.ExpectExec("INSERT INTO SERVICE_APPROVAL_STATUS_AUDIT").
		WithArgs("AUDIT-2", int64(101), "APPROVED", nil, nil, fixedTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := dao.CreateWithTx(context.Background(), tx, &models.ApprovalStatusAudit{
		StatusAuditID: "AUDIT-2",
		ApprovalID:    101,
		CurrentStatus: models.ApprovalStatusApproved,
		ActionTime:    fixedTime,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAuditDAO_GetByApprovalID(t *testing.T) {
	db, mock := newTestDB(t)
	dao := NewStatusAuditDAO(db, spanishMapping())

	mock.ExpectQuery("SELECT .* FROM SERVICE_APPROVAL_STATUS_AUDIT WHERE APPROVAL_ID = \\? ORDER BY ACTION_TIME DESC").
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{
			"STATUS_AUDIT_ID", "APPROVAL_ID", "CURRENT_STATUS", "PREVIOUS_STATUS", "REASON", "ACTION_TIME",
		}).
			AddRow("AUDIT-2", int64(101), "COMPLETADO", "APROBADO", nil, fixedTime).
			AddRow("AUDIT-1", int64(101), "APROBADO", nil, nil, fixedTime))

	audits, err := dao.GetByApprovalID(context.Background(), 101)

	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, models.ApprovalStatusCompleted, audits[0].CurrentStatus)
	require.NotNil(t, audits[0].PreviousStatus)
	assert.Equal(t, models.ApprovalStatusApproved, *audits[0].PreviousStatus)
	assert.Nil(t, audits[1].PreviousStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
