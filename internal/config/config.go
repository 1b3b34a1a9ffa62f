package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabasesConfig   `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Approval    ApprovalConfig    `mapstructure:"approval"`
	ConfigStore ConfigStoreConfig `mapstructure:"config_store"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MachineID distinguishes instances in generated approval IDs; 0 derives it from the host IP
	MachineID       uint16        `mapstructure:"machine_id"`
}

// DatabasesConfig holds all database configurations
type DatabasesConfig struct {
	Approval DatabaseConfig `mapstructure:"approval"`
}

// DatabaseConfig holds individual database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds the Redis connection used for approval transition locks
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Hostname string `mapstructure:"hostname"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ApprovalConfig holds service approval workflow configuration
type ApprovalConfig struct {
	StatusMappings         ApprovalStatusMappings `mapstructure:"status_mappings"`
	BlockedAccountStatuses []string               `mapstructure:"blocked_account_statuses"`
	CodeMaxAttempts        int                    `mapstructure:"code_max_attempts"`
	LockTTL                time.Duration          `mapstructure:"lock_ttl"`
}

// ApprovalStatusMappings holds the string persisted for each approval lifecycle state
type ApprovalStatusMappings struct {
	PendingStatus   string `mapstructure:"pending_status"`
	ApprovedStatus  string `mapstructure:"approved_status"`
	RejectedStatus  string `mapstructure:"rejected_status"`
	CompletedStatus string `mapstructure:"completed_status"`
}

// ConfigStoreConfig holds system configuration store settings
type ConfigStoreConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")
	}

	// APPROVAL_API_DATABASE_APPROVAL_PASSWORD overrides database.approval.password
	v.SetEnvPrefix("APPROVAL_API")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.approval.type", "mysql")
	v.SetDefault("database.approval.port", 3306)
	v.SetDefault("database.approval.max_open_conns", 25)
	v.SetDefault("database.approval.max_idle_conns", 5)
	v.SetDefault("database.approval.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.port", 6379)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("approval.status_mappings.pending_status", "PENDING")
	v.SetDefault("approval.status_mappings.approved_status", "APPROVED")
	v.SetDefault("approval.status_mappings.rejected_status", "REJECTED")
	v.SetDefault("approval.status_mappings.completed_status", "COMPLETED")
	v.SetDefault("approval.blocked_account_statuses", []string{"PENDING_PAYMENT"})
	v.SetDefault("approval.code_max_attempts", 5)
	v.SetDefault("approval.lock_ttl", 10*time.Second)

	v.SetDefault("config_store.cache_ttl", 30*time.Second)
}

// validateConfig collects every configuration problem instead of stopping at the first one
func validateConfig(config *Config) error {
	var result *multierror.Error

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid server port: %d", config.Server.Port))
	}

	if config.Database.Approval.Hostname == "" {
		result = multierror.Append(result, fmt.Errorf("database hostname is required"))
	}

	if config.Database.Approval.Database == "" {
		result = multierror.Append(result, fmt.Errorf("database name is required"))
	}

	if config.Redis.Enabled && config.Redis.Hostname == "" {
		result = multierror.Append(result, fmt.Errorf("redis hostname is required when redis is enabled"))
	}

	mappings := config.Approval.StatusMappings
	if mappings.ApprovedStatus == "" {
		result = multierror.Append(result, fmt.Errorf("approved status mapping is required"))
	}
	if mappings.RejectedStatus == "" {
		result = multierror.Append(result, fmt.Errorf("rejected status mapping is required"))
	}
	if mappings.CompletedStatus == "" {
		result = multierror.Append(result, fmt.Errorf("completed status mapping is required"))
	}
	if mappings.PendingStatus == "" {
		result = multierror.Append(result, fmt.Errorf("pending status mapping is required"))
	}

	if config.Approval.CodeMaxAttempts < 1 {
		result = multierror.Append(result, fmt.Errorf("approval code_max_attempts must be at least 1"))
	}

	if config.ConfigStore.CacheTTL < 0 {
		result = multierror.Append(result, fmt.Errorf("config_store cache_ttl must not be negative"))
	}

	return result.ErrorOrNil()
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// GetRedisAddress returns the redis address in host:port format
func (r *RedisConfig) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", r.Hostname, r.Port)
}

// IsBlockedAccountStatus checks if an account status prevents requesting new approvals
func (a *ApprovalConfig) IsBlockedAccountStatus(status string) bool {
	for _, blocked := range a.BlockedAccountStatuses {
		if strings.EqualFold(strings.TrimSpace(status), blocked) {
			return true
		}
	}
	return false
}
