package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/models"
)

// MockStatusAuditStore is a mock implementation of the status audit store
type MockStatusAuditStore struct {
	mock.Mock
}

func (m *MockStatusAuditStore) CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.ApprovalStatusAudit) error {
	args := m.Called(ctx, tx, audit)
	return args.Error(0)
}

func (m *MockStatusAuditStore) GetByApprovalID(ctx context.Context, approvalID int64) ([]models.ApprovalStatusAudit, error) {
	args := m.Called(ctx, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApprovalStatusAudit), args.Error(1)
}
