package dao

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configColumnNames = []string{"ID", "CONFIG_KEY", "CONFIG_VALUE", "DESCRIPTION", "LAST_UPDATED"}

func newTestSystemConfigDAO(t *testing.T) (*SystemConfigDAO, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	dao := NewSystemConfigDAO(db)
	dao.now = func() time.Time { return fixedTime }
	return dao, mock
}

func TestSystemConfigDAO_Upsert(t *testing.T) {
	dao, mock := newTestSystemConfigDAO(t)

	mock.ExpectExec("INSERT INTO SYSTEM_CONFIG .* ON DUPLICATE KEY UPDATE").
		WithArgs("MIN_PRESCRIPTION_AMOUNT", "300.00", "Minimum total", fixedTime).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := dao.Upsert(context.Background(), "MIN_PRESCRIPTION_AMOUNT", "300.00", "Minimum total")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSystemConfigDAO_Upsert_EmptyDescriptionKeepsExisting(t *testing.T) {
	dao, mock := newTestSystemConfigDAO(t)

	mock.ExpectExec("DESCRIPTION = COALESCE\\(VALUES\\(DESCRIPTION\\), DESCRIPTION\\)").
		WithArgs("MIN_PRESCRIPTION_AMOUNT", "300.00", nil, fixedTime).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := dao.Upsert(context.Background(), "MIN_PRESCRIPTION_AMOUNT", "300.00", "")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSystemConfigDAO_Upsert_Error(t *testing.T) {
	dao, mock := newTestSystemConfigDAO(t)

	mock.ExpectExec("INSERT INTO SYSTEM_CONFIG").WillReturnError(errors.New("read only"))

	err := dao.Upsert(context.Background(), "K", "V", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert system config K")
}

func TestSystemConfigDAO_CreateIfAbsent(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{"inserted", 1, true},
		{"already present", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dao, mock := newTestSystemConfigDAO(t)

			mock.ExpectExec("INSERT IGNORE INTO SYSTEM_CONFIG").
				WithArgs("MIN_PRESCRIPTION_AMOUNT", "250.00", "desc", fixedTime).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			created, err := dao.CreateIfAbsent(context.Background(), "MIN_PRESCRIPTION_AMOUNT", "250.00", "desc")

			require.NoError(t, err)
			assert.Equal(t, tt.want, created)
		})
	}
}

func TestSystemConfigDAO_GetByKey(t *testing.T) {
	dao, mock := newTestSystemConfigDAO(t)

	mock.ExpectQuery("SELECT .* FROM SYSTEM_CONFIG WHERE CONFIG_KEY = \\?").
		WithArgs("MIN_PRESCRIPTION_AMOUNT").
		WillReturnRows(sqlmock.NewRows(configColumnNames).
			AddRow(int64(1), "MIN_PRESCRIPTION_AMOUNT", "250.00", "Minimum total", fixedTime))

	cfg, err := dao.GetByKey(context.Background(), "MIN_PRESCRIPTION_AMOUNT")

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "250.00", cfg.ConfigValue)
	require.NotNil(t, cfg.Description)
	assert.Equal(t, "Minimum total", *cfg.Description)
}

func TestSystemConfigDAO_GetByKey_NotFound(t *testing.T) {
	dao, mock := newTestSystemConfigDAO(t)

	mock.ExpectQuery("SELECT .* FROM SYSTEM_CONFIG WHERE CONFIG_KEY = \\?").
		WithArgs("MISSING").
		WillReturnRows(sqlmock.NewRows(configColumnNames))

	cfg, err := dao.GetByKey(context.Background(), "MISSING")

	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestSystemConfigDAO_GetAll(t *testing.T) {
	dao, mock := newTestSystemConfigDAO(t)

	mock.ExpectQuery("SELECT .* FROM SYSTEM_CONFIG ORDER BY CONFIG_KEY ASC").
		WillReturnRows(sqlmock.NewRows(configColumnNames).
			AddRow(int64(2), "A_KEY", "1", nil, fixedTime).
			AddRow(int64(1), "B_KEY", "2", "second", fixedTime))

	configs, err := dao.GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "A_KEY", configs[0].ConfigKey)
	assert.Nil(t, configs[0].Description)
	assert.Equal(t, "B_KEY", configs[1].ConfigKey)
}

func TestSystemConfigDAO_Delete(t *testing.T) {
	dao, mock := newTestSystemConfigDAO(t)

	mock.ExpectExec("DELETE FROM SYSTEM_CONFIG WHERE ID = \\?").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM SYSTEM_CONFIG WHERE ID = \\?").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := dao.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = dao.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.NoError(t, mock.ExpectationsWereMet())
}
