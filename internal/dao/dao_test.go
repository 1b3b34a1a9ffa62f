package dao

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/healthcover/service-approval-api/internal/database"
)

var fixedTime = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return database.New(sqlx.NewDb(sqlDB, "mysql"), logger), mock
}

func beginTx(t *testing.T, db *database.DB, mock sqlmock.Sqlmock) *database.Transaction {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background())
	require.NoError(t, err)
	return tx
}
