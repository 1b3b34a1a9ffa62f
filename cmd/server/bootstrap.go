package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/healthcover/service-approval-api/internal/config"
	"github.com/healthcover/service-approval-api/internal/dao"
	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/service"
)

// newLogger builds the process logger from the logging section
func newLogger(cfg *config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger.SetLevel(logrus.InfoLevel)
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// loadConfig loads configuration and the logger configured by it
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(&cfg.Logging)
	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Debug("Configuration loaded successfully")
	return cfg, logger, nil
}

func statusMapping(cfg *config.ApprovalStatusMappings) models.StatusMapping {
	m := models.DefaultStatusMapping()
	if cfg.PendingStatus != "" {
		m.Pending = cfg.PendingStatus
	}
	if cfg.ApprovedStatus != "" {
		m.Approved = cfg.ApprovedStatus
	}
	if cfg.RejectedStatus != "" {
		m.Rejected = cfg.RejectedStatus
	}
	if cfg.CompletedStatus != "" {
		m.Completed = cfg.CompletedStatus
	}
	return m
}

// openConfigService connects to the database and returns a config service over it.
// The caller closes the database.
func openConfigService(cfg *config.Config, logger *logrus.Logger, cached bool) (*service.ConfigService, *database.DB, error) {
	db, err := database.Initialize(&cfg.Database.Approval, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ttl := cfg.ConfigStore.CacheTTL
	if !cached {
		ttl = 0
	}
	return service.NewConfigService(dao.NewSystemConfigDAO(db), ttl, logger), db, nil
}
