package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/healthcover/service-approval-api/internal/models"
)

// MockSystemConfigStore is a mock implementation of SystemConfigStore
type MockSystemConfigStore struct {
	mock.Mock
}

func (m *MockSystemConfigStore) Upsert(ctx context.Context, key, value, description string) error {
	args := m.Called(ctx, key, value, description)
	return args.Error(0)
}

func (m *MockSystemConfigStore) CreateIfAbsent(ctx context.Context, key, value, description string) (bool, error) {
	args := m.Called(ctx, key, value, description)
	return args.Bool(0), args.Error(1)
}

func (m *MockSystemConfigStore) GetByKey(ctx context.Context, key string) (*models.SystemConfig, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemConfig), args.Error(1)
}

func (m *MockSystemConfigStore) GetAll(ctx context.Context) ([]models.SystemConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SystemConfig), args.Error(1)
}

func (m *MockSystemConfigStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
