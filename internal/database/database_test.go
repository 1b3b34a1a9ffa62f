package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(sqlx.NewDb(sqlDB, "mysql"), logger), mock
}

func TestWithTransaction_Commits(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE SYSTEM_CONFIG").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(tx *Transaction) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE SYSTEM_CONFIG SET CONFIG_VALUE = ?", "1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("boom")
	err := db.WithTransaction(context.Background(), func(tx *Transaction) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = db.WithTransaction(context.Background(), func(tx *Transaction) error {
			panic("unexpected")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'AP1A2B3C4D' for key 'SERVICE_APPROVAL.UK_SERVICE_APPROVAL_CODE'",
	}

	tests := []struct {
		name    string
		err     error
		keyName string
		want    bool
	}{
		{"duplicate any key", dup, "", true},
		{"duplicate matching key", dup, "UK_SERVICE_APPROVAL_CODE", true},
		{"duplicate wrapped", fmt.Errorf("failed to create: %w", dup), "UK_SERVICE_APPROVAL_CODE", true},
		{"duplicate other key", dup, "UK_SERVICE_APPROVAL_IDEMPOTENCY", false},
		{"other mysql error", &mysql.MySQLError{Number: 1213, Message: "Deadlock"}, "", false},
		{"plain error", errors.New("connection refused"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKeyError(tt.err, tt.keyName))
		})
	}
}
