package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockHospitalRepository is a mock implementation of HospitalRepository
type MockHospitalRepository struct {
	mock.Mock
}

func (m *MockHospitalRepository) FindByID(ctx context.Context, id int64) (*models.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hospital), args.Error(1)
}

// MockConfigReader is a mock implementation of ConfigReader
type MockConfigReader struct {
	mock.Mock
}

func (m *MockConfigReader) GetDecimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal {
	args := m.Called(ctx, key, def)
	return args.Get(0).(decimal.Decimal)
}

// MockLocker is a mock implementation of lock.Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}

// MockIDGenerator is a mock implementation of idgen.Generator
type MockIDGenerator struct {
	mock.Mock
}

func (m *MockIDGenerator) NextID() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// FakeTxManager runs the unit of work without a database. Commits and rollbacks are counted.
type FakeTxManager struct {
	BeginErr  error
	Commits   int
	Rollbacks int
}

func (f *FakeTxManager) WithTransaction(ctx context.Context, fn func(*database.Transaction) error) error {
	if f.BeginErr != nil {
		return f.BeginErr
	}
	if err := fn(nil); err != nil {
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}
