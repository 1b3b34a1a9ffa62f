package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/healthcover/service-approval-api/internal/configtypes"
	"github.com/healthcover/service-approval-api/internal/models"
	"github.com/healthcover/service-approval-api/internal/serviceerror"
	"github.com/healthcover/service-approval-api/pkg/utils"
)

// SystemConfigStore is the persistence used by ConfigService
type SystemConfigStore interface {
	Upsert(ctx context.Context, key, value, description string) error
	CreateIfAbsent(ctx context.Context, key, value, description string) (bool, error)
	GetByKey(ctx context.Context, key string) (*models.SystemConfig, error)
	GetAll(ctx context.Context) ([]models.SystemConfig, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ConfigService handles business logic for system configuration entries
type ConfigService struct {
	store  SystemConfigStore
	types  *configtypes.Registry
	cache  *ttlcache.Cache[string, *models.SystemConfig]
	logger *logrus.Logger
}

// NewConfigService creates a new ConfigService. Single key reads are cached for cacheTTL;
// a zero TTL disables the cache.
func NewConfigService(store SystemConfigStore, cacheTTL time.Duration, logger *logrus.Logger) *ConfigService {
	s := &ConfigService{
		store:  store,
		types:  configtypes.Default(),
		logger: logger,
	}
	if cacheTTL > 0 {
		s.cache = ttlcache.New(
			ttlcache.WithTTL[string, *models.SystemConfig](cacheTTL),
		)
		go s.cache.Start()
	}
	return s
}

// Stop releases the cache expiration goroutine
func (s *ConfigService) Stop() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// Upsert creates or updates a configuration entry and returns the stored record
func (s *ConfigService) Upsert(ctx context.Context, key, value, description string) (*models.SystemConfig, *serviceerror.ServiceError) {
	key = utils.SanitizeString(key)
	if err := utils.ValidateConfigKey(key); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateRequired("value", value); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	value, err := s.types.Prepare(key, value)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	if err = s.store.Upsert(ctx, key, value, strings.TrimSpace(description)); err != nil {
		s.logger.WithError(err).WithField("config_key", key).Error("Failed to upsert system config")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to save configuration")
	}
	s.invalidate(key)

	cfg, err := s.store.GetByKey(ctx, key)
	if err != nil || cfg == nil {
		s.logger.WithError(err).WithField("config_key", key).Error("Failed to read back system config")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to read saved configuration")
	}

	s.logger.WithFields(logrus.Fields{
		"config_key":   key,
		"config_value": value,
		"config_type":  s.types.TypeOf(key),
	}).Info("System config updated")

	return cfg, nil
}

// GetByKey returns the entry for key, or nil when it does not exist
func (s *ConfigService) GetByKey(ctx context.Context, key string) (*models.SystemConfig, *serviceerror.ServiceError) {
	cfg, err := s.load(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("config_key", key).Error("Failed to get system config")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to read configuration")
	}
	return cfg, nil
}

// GetAll returns every entry ordered by key
func (s *ConfigService) GetAll(ctx context.Context) ([]models.SystemConfig, *serviceerror.ServiceError) {
	configs, err := s.store.GetAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list system config")
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to list configuration")
	}
	return configs, nil
}

// Delete removes the entry with the given ID and reports whether one was removed
func (s *ConfigService) Delete(ctx context.Context, id int64) (bool, *serviceerror.ServiceError) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("config_id", id).Error("Failed to delete system config")
		return false, serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to delete configuration")
	}
	if removed {
		// the key of a deleted id is unknown here
		s.invalidateAll()
		s.logger.WithField("config_id", id).Info("System config deleted")
	}
	return removed, nil
}

// GetString returns the value of key, or def when the key is absent or cannot be read
func (s *ConfigService) GetString(ctx context.Context, key, def string) string {
	cfg, err := s.load(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("config_key", key).Warn("Failed to read system config, using default")
		return def
	}
	if cfg == nil {
		return def
	}
	return cfg.ConfigValue
}

// GetDouble returns the value of key as a float, or def when it is absent, unreadable or not a number
func (s *ConfigService) GetDouble(ctx context.Context, key string, def float64) float64 {
	raw := s.GetString(ctx, key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		s.logger.WithField("config_key", key).Warn("System config value is not a number, using default")
		return def
	}
	return v
}

// GetDecimal is GetDouble for monetary values
func (s *ConfigService) GetDecimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal {
	raw := s.GetString(ctx, key, "")
	if raw == "" {
		return def
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		s.logger.WithField("config_key", key).Warn("System config value is not a decimal, using default")
		return def
	}
	return v
}

// EnsureDefaults creates the settings the approval workflow relies on when they are missing
func (s *ConfigService) EnsureDefaults(ctx context.Context) *serviceerror.ServiceError {
	created, err := s.store.CreateIfAbsent(ctx,
		models.ConfigKeyMinPrescriptionAmount,
		models.DefaultMinPrescriptionAmount,
		models.DefaultMinPrescriptionAmountDetail,
	)
	if err != nil {
		s.logger.WithError(err).Error("Failed to initialize default system config")
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to initialize default configuration")
	}

	if created {
		s.invalidate(models.ConfigKeyMinPrescriptionAmount)
		s.logger.WithFields(logrus.Fields{
			"config_key":   models.ConfigKeyMinPrescriptionAmount,
			"config_value": models.DefaultMinPrescriptionAmount,
		}).Info("Default system config created")
	}
	return nil
}

// load reads key through the cache. Absent keys are cached as nil; errors are not cached.
func (s *ConfigService) load(ctx context.Context, key string) (*models.SystemConfig, error) {
	if s.cache == nil {
		return s.store.GetByKey(ctx, key)
	}

	var loadErr error
	loader := ttlcache.LoaderFunc[string, *models.SystemConfig](
		func(cache *ttlcache.Cache[string, *models.SystemConfig], key string) *ttlcache.Item[string, *models.SystemConfig] {
			cfg, err := s.store.GetByKey(ctx, key)
			if err != nil {
				loadErr = err
				return nil
			}
			return cache.Set(key, cfg, ttlcache.DefaultTTL)
		},
	)

	item := s.cache.Get(key, ttlcache.WithLoader[string, *models.SystemConfig](loader))
	if loadErr != nil {
		return nil, loadErr
	}
	if item == nil || item.Value() == nil {
		return nil, nil
	}

	cfg := *item.Value()
	return &cfg, nil
}

func (s *ConfigService) invalidate(key string) {
	if s.cache != nil {
		s.cache.Delete(key)
	}
}

func (s *ConfigService) invalidateAll() {
	if s.cache != nil {
		s.cache.DeleteAll()
	}
}
