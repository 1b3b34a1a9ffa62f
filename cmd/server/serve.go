package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/healthcover/service-approval-api/internal/config"
	"github.com/healthcover/service-approval-api/internal/dao"
	"github.com/healthcover/service-approval-api/internal/idgen"
	"github.com/healthcover/service-approval-api/internal/lock"
	"github.com/healthcover/service-approval-api/internal/router"
	"github.com/healthcover/service-approval-api/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Service Approval API Server...")

	configService, db, err := openConfigService(cfg, logger, true)
	if err != nil {
		return err
	}
	defer db.Close()
	defer configService.Stop()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if svcErr := configService.EnsureDefaults(ctx); svcErr != nil {
		return fmt.Errorf("failed to initialize system config: %s", svcErr.ErrorDescription)
	}

	locker, closeLocker, err := newLocker(ctx, &cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	ids, err := idgen.NewFlakeGenerator(cfg.Server.MachineID)
	if err != nil {
		return fmt.Errorf("failed to create id generator: %w", err)
	}

	statuses := statusMapping(&cfg.Approval.StatusMappings)
	approvalService := service.NewApprovalService(
		dao.NewServiceApprovalDAO(db, statuses),
		dao.NewStatusAuditDAO(db, statuses),
		dao.NewUserDAO(db),
		dao.NewHospitalDAO(db),
		configService,
		db,
		locker,
		ids,
		cfg.Approval,
		logger,
	)

	logger.Info("Services initialized successfully")

	ginRouter, err := router.SetupRouter(cfg, approvalService, configService, db, logger)
	if err != nil {
		return err
	}

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("address", serverAddr).Info("Starting HTTP server...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	db.LogStats()
	if err != nil {
		logger.WithError(err).Error("Server stopped with error")
		return err
	}

	logger.Info("Server exited gracefully")
	return nil
}

// newLocker returns the Redis backed transition locker, or a no-op locker when Redis is disabled
func newLocker(ctx context.Context, cfg *config.RedisConfig, logger *logrus.Logger) (lock.Locker, func(), error) {
	if !cfg.Enabled {
		logger.Info("Redis disabled, approval transitions rely on row versions only")
		return lock.NoopLocker{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddress(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("address", cfg.GetRedisAddress()).Info("Connected to redis")
	return lock.NewRedisLocker(client, "service-approval:lock:", logger), func() { _ = client.Close() }, nil
}
