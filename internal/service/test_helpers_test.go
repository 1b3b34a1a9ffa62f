package service

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/healthcover/service-approval-api/internal/config"
	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/service/mocks"
)

var testNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

// TestSetup contains common test dependencies
type TestSetup struct {
	MockApprovals *mocks.MockApprovalStore
	MockAudits    *mocks.MockStatusAuditStore
	MockUsers     *mocks.MockUserRepository
	MockHospitals *mocks.MockHospitalRepository
	MockConfigs   *mocks.MockConfigReader
	MockLocker    *mocks.MockLocker
	MockIDs       *mocks.MockIDGenerator
	TxManager     *mocks.FakeTxManager
	Service       *ApprovalService
	Logger        *logrus.Logger
}

// NewTestSetup creates an ApprovalService wired to mocks with a fixed clock
func NewTestSetup() *TestSetup {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ts := &TestSetup{
		MockApprovals: &mocks.MockApprovalStore{},
		MockAudits:    &mocks.MockStatusAuditStore{},
		MockUsers:     &mocks.MockUserRepository{},
		MockHospitals: &mocks.MockHospitalRepository{},
		MockConfigs:   &mocks.MockConfigReader{},
		MockLocker:    &mocks.MockLocker{},
		MockIDs:       &mocks.MockIDGenerator{},
		TxManager:     &mocks.FakeTxManager{},
		Logger:        logger,
	}

	ts.Service = NewApprovalService(
		ts.MockApprovals,
		ts.MockAudits,
		ts.MockUsers,
		ts.MockHospitals,
		ts.MockConfigs,
		ts.TxManager,
		ts.MockLocker,
		ts.MockIDs,
		config.ApprovalConfig{
			BlockedAccountStatuses: []string{"PENDING_PAYMENT"},
			CodeMaxAttempts:        3,
			LockTTL:                10 * time.Second,
		},
		logger,
	)
	ts.Service.now = func() time.Time { return testNow }
	return ts
}

// ExpectLock makes the locker grant and release the lock for code
func (ts *TestSetup) ExpectLock(code string) {
	ts.MockLocker.On("TryLock", mock.Anything, code, 10*time.Second).Return("token", true, nil).Once()
	ts.MockLocker.On("Unlock", mock.Anything, code, "token").Return(nil).Once()
}

// AssertExpectations verifies every mock
func (ts *TestSetup) AssertExpectations(t mock.TestingT) {
	ts.MockApprovals.AssertExpectations(t)
	ts.MockAudits.AssertExpectations(t)
	ts.MockUsers.AssertExpectations(t)
	ts.MockHospitals.AssertExpectations(t)
	ts.MockConfigs.AssertExpectations(t)
	ts.MockLocker.AssertExpectations(t)
	ts.MockIDs.AssertExpectations(t)
}

// NewEligibleUser returns a user with an active 80% policy
func NewEligibleUser() *models.User {
	return &models.User{
		ID:     1,
		Name:   "Ana Perez",
		Email:  "ana@example.com",
		Status: "ACTIVE",
		Policy: &models.Policy{
			ID:                 9,
			PolicyNumber:       "POL-9",
			CoveragePercentage: 80,
			ExpirationDate:     testNow.AddDate(1, 0, 0),
		},
	}
}

// NewValidApprovalRequest returns a request for a 1000.00 service
func NewValidApprovalRequest() *models.ServiceApprovalRequest {
	return &models.ServiceApprovalRequest{
		UserID:      1,
		HospitalID:  2,
		ServiceID:   "SVC-MRI",
		ServiceName: "MRI Scan",
		ServiceCost: decimal.RequireFromString("1000.00"),
	}
}

// NewApprovedApproval returns a persisted APPROVED approval
func NewApprovedApproval(code string) *models.ServiceApproval {
	return &models.ServiceApproval{
		ID:            101,
		ApprovalCode:  code,
		UserID:        1,
		HospitalID:    2,
		ServiceID:     "SVC-MRI",
		ServiceName:   "MRI Scan",
		ServiceCost:   decimal.RequireFromString("1000.00"),
		CoveredAmount: decimal.RequireFromString("800.00"),
		PatientAmount: decimal.RequireFromString("200.00"),
		Status:        models.ApprovalStatusApproved,
		ApprovalDate:  testNow,
		Version:       1,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
}

func strPtr(s string) *string {
	return &s
}
