package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/models"
)

// MockApprovalStore is a mock implementation of the approval ledger
type MockApprovalStore struct {
	mock.Mock
}

func (m *MockApprovalStore) CreateWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval) error {
	args := m.Called(ctx, tx, approval)
	return args.Error(0)
}

func (m *MockApprovalStore) GetByID(ctx context.Context, id int64) (*models.ServiceApproval, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceApproval), args.Error(1)
}

func (m *MockApprovalStore) GetByCode(ctx context.Context, approvalCode string) (*models.ServiceApproval, error) {
	args := m.Called(ctx, approvalCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceApproval), args.Error(1)
}

func (m *MockApprovalStore) GetByCodeWithTx(ctx context.Context, tx *database.Transaction, approvalCode string) (*models.ServiceApproval, error) {
	args := m.Called(ctx, tx, approvalCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceApproval), args.Error(1)
}

func (m *MockApprovalStore) GetByIdempotencyKey(ctx context.Context, key string) (*models.ServiceApproval, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceApproval), args.Error(1)
}

func (m *MockApprovalStore) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]models.ServiceApproval, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.ServiceApproval), args.Int(1), args.Error(2)
}

func (m *MockApprovalStore) UpdatePrescriptionWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, tx, approval, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockApprovalStore) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, approval *models.ServiceApproval, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, tx, approval, expectedVersion)
	return args.Bool(0), args.Error(1)
}
