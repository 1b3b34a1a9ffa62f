package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/healthcover/service-approval-api/internal/database"
	"github.com/healthcover/service-approval-api/internal/models"
)

// SystemConfigDAO handles database operations for system configuration entries
type SystemConfigDAO struct {
	db  *database.DB
	now func() time.Time
}

// NewSystemConfigDAO creates a new SystemConfigDAO
func NewSystemConfigDAO(db *database.DB) *SystemConfigDAO {
	return &SystemConfigDAO{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Upsert creates key when absent, otherwise overwrites its value. The stored description
// is replaced only when description is non-empty.
func (dao *SystemConfigDAO) Upsert(ctx context.Context, key, value, description string) error {
	query := `
		INSERT INTO SYSTEM_CONFIG (CONFIG_KEY, CONFIG_VALUE, DESCRIPTION, LAST_UPDATED)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			CONFIG_VALUE = VALUES(CONFIG_VALUE),
			DESCRIPTION = COALESCE(VALUES(DESCRIPTION), DESCRIPTION),
			LAST_UPDATED = VALUES(LAST_UPDATED)
	`

	_, err := dao.db.ExecContext(ctx, query, key, value, nullableString(description), dao.now())
	if err != nil {
		return fmt.Errorf("failed to upsert system config %s: %w", key, err)
	}

	return nil
}

// CreateIfAbsent inserts key only when no entry exists. Returns true when a row was written.
func (dao *SystemConfigDAO) CreateIfAbsent(ctx context.Context, key, value, description string) (bool, error) {
	query := `
		INSERT IGNORE INTO SYSTEM_CONFIG (CONFIG_KEY, CONFIG_VALUE, DESCRIPTION, LAST_UPDATED)
		VALUES (?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(ctx, query, key, value, nullableString(description), dao.now())
	if err != nil {
		return false, fmt.Errorf("failed to create system config %s: %w", key, err)
	}

	return applied(result)
}

// GetByKey retrieves a configuration entry by key. Returns nil when absent.
func (dao *SystemConfigDAO) GetByKey(ctx context.Context, key string) (*models.SystemConfig, error) {
	query := `
		SELECT ID, CONFIG_KEY, CONFIG_VALUE, DESCRIPTION, LAST_UPDATED
		FROM SYSTEM_CONFIG
		WHERE CONFIG_KEY = ?
	`

	var cfg models.SystemConfig
	if err := dao.db.GetContext(ctx, &cfg, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get system config %s: %w", key, err)
	}

	cfg.LastUpdated = cfg.LastUpdated.UTC()
	return &cfg, nil
}

// GetAll retrieves every configuration entry ordered by key
func (dao *SystemConfigDAO) GetAll(ctx context.Context) ([]models.SystemConfig, error) {
	query := `
		SELECT ID, CONFIG_KEY, CONFIG_VALUE, DESCRIPTION, LAST_UPDATED
		FROM SYSTEM_CONFIG
		ORDER BY CONFIG_KEY ASC
	`

	configs := []models.SystemConfig{}
	if err := dao.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("failed to list system config: %w", err)
	}

	return configs, nil
}

// Delete removes an entry by ID and reports whether a row was removed
func (dao *SystemConfigDAO) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := dao.db.ExecContext(ctx, `DELETE FROM SYSTEM_CONFIG WHERE ID = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete system config %d: %w", id, err)
	}

	return applied(result)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
