package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthcover/service-approval-api/internal/config"
	"github.com/healthcover/service-approval-api/internal/handlers"
	"github.com/healthcover/service-approval-api/internal/middleware"
)

// SetupRouter configures all API routes
func SetupRouter(
	cfg *config.Config,
	approvals handlers.ApprovalWorkflow,
	configs handlers.ConfigManager,
	db handlers.HealthChecker,
	logger *logrus.Logger,
) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.RequestLogger(logger))
	if cfg.CORS.Enabled {
		router.Use(middleware.CORSMiddleware(middleware.CORSOptionsFromConfig(&cfg.CORS)))
	}

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)

	// Create handlers
	approvalHandler := handlers.NewServiceApprovalHandler(approvals)
	configHandler := handlers.NewSystemConfigHandler(configs)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		approvalRoutes := v1.Group("/service-approvals")
		{
			approvalRoutes.POST("", approvalHandler.RequestApproval)
			approvalRoutes.GET("/:approvalCode", approvalHandler.GetApprovalStatus)
			approvalRoutes.POST("/:approvalCode/prescription", approvalHandler.AttachPrescription)
			approvalRoutes.POST("/:approvalCode/complete", approvalHandler.CompleteApproval)
			approvalRoutes.GET("/:approvalCode/history", approvalHandler.GetApprovalHistory)
		}

		v1.GET("/users/:userId/service-approvals", approvalHandler.ListUserApprovals)

		configRoutes := v1.Group("/system-config")
		{
			configRoutes.GET("", configHandler.ListConfigs)
			configRoutes.GET("/:key", configHandler.GetConfig)
			configRoutes.PUT("/:key", configHandler.UpsertConfig)
			configRoutes.DELETE("/:id", configHandler.DeleteConfig)
		}
	}

	return router, nil
}
