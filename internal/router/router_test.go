package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthcover/service-approval-api/internal/config"
	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/serviceerror"
)

type stubWorkflow struct{}

func (stubWorkflow) RequestApproval(context.Context, *models.ServiceApprovalRequest) (*models.ServiceApprovalResult, *serviceerror.ServiceError) {
	return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "stub")
}

func (stubWorkflow) AttachPrescription(context.Context, string, *models.PrescriptionRequest) (*models.PrescriptionResult, *serviceerror.ServiceError) {
	return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "stub")
}

func (stubWorkflow) CheckApprovalStatus(_ context.Context, code string) (*models.ApprovalStatusResponse, *serviceerror.ServiceError) {
	return &models.ApprovalStatusResponse{ApprovalCode: code, Status: models.ApprovalStatusApproved}, nil
}

func (stubWorkflow) CompleteApproval(context.Context, string) (*models.ServiceApproval, *serviceerror.ServiceError) {
	return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "stub")
}

func (stubWorkflow) GetApprovalHistory(context.Context, string) ([]models.ApprovalStatusAudit, *serviceerror.ServiceError) {
	return []models.ApprovalStatusAudit{}, nil
}

func (stubWorkflow) ListUserApprovals(context.Context, int64, int, int) (*models.ApprovalListResponse, *serviceerror.ServiceError) {
	return &models.ApprovalListResponse{}, nil
}

type stubConfigs struct{}

func (stubConfigs) Upsert(context.Context, string, string, string) (*models.SystemConfig, *serviceerror.ServiceError) {
	return &models.SystemConfig{}, nil
}

func (stubConfigs) GetByKey(context.Context, string) (*models.SystemConfig, *serviceerror.ServiceError) {
	return nil, nil
}

func (stubConfigs) GetAll(context.Context) ([]models.SystemConfig, *serviceerror.ServiceError) {
	return []models.SystemConfig{}, nil
}

func (stubConfigs) Delete(context.Context, int64) (bool, *serviceerror.ServiceError) {
	return false, nil
}

type stubDB struct{}

func (stubDB) HealthCheck(context.Context) error { return nil }

func newRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		CORS: config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://portal.example.com"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type", "X-Correlation-ID"},
		},
	}

	r, err := SetupRouter(cfg, stubWorkflow{}, stubConfigs{}, stubDB{}, logger)
	require.NoError(t, err)
	return r
}

func TestRoutesAreRegistered(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/service-approvals/AP1A2B3C4D", http.StatusOK},
		{http.MethodGet, "/api/v1/service-approvals/AP1A2B3C4D/history", http.StatusOK},
		{http.MethodPost, "/api/v1/service-approvals/AP1A2B3C4D/complete", http.StatusInternalServerError},
		{http.MethodGet, "/api/v1/users/1/service-approvals", http.StatusOK},
		{http.MethodGet, "/api/v1/system-config", http.StatusOK},
		{http.MethodGet, "/api/v1/system-config/UNKNOWN", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/system-config/5", http.StatusNotFound},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "corr-123", w.Header().Get("X-Correlation-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get("X-Correlation-ID"), 36)
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/system-config", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portal.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
