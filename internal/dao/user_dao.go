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

// UserDAO reads users and their policies. It never writes.
type UserDAO struct {
	db *database.DB
}

// NewUserDAO creates a new UserDAO
func NewUserDAO(db *database.DB) *UserDAO {
	return &UserDAO{db: db}
}

type userRow struct {
	ID                 int64           `db:"ID"`
	Name               string          `db:"NAME"`
	Email              string          `db:"EMAIL"`
	Status             string          `db:"STATUS"`
	PolicyID           sql.NullInt64   `db:"POLICY_ID"`
	PolicyNumber       sql.NullString  `db:"POLICY_NUMBER"`
	CoveragePercentage sql.NullFloat64 `db:"COVERAGE_PERCENTAGE"`
	ExpirationDate     sql.NullTime    `db:"EXPIRATION_DATE"`
}

// FindByID returns the user with its policy, or nil when absent
func (dao *UserDAO) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT u.ID, u.NAME, u.EMAIL, u.STATUS,
		       p.POLICY_ID, p.POLICY_NUMBER, p.COVERAGE_PERCENTAGE, p.EXPIRATION_DATE
		FROM USERS u
		LEFT JOIN POLICY p ON p.POLICY_ID = u.POLICY_ID
		WHERE u.ID = ?
	`

	var row userRow
	if err := dao.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	user := &models.User{
		ID:     row.ID,
		Name:   row.Name,
		Email:  row.Email,
		Status: row.Status,
	}
	if row.PolicyID.Valid {
		user.Policy = &models.Policy{
			ID:                 row.PolicyID.Int64,
			PolicyNumber:       row.PolicyNumber.String,
			CoveragePercentage: row.CoveragePercentage.Float64,
			ExpirationDate:     dateOnly(row.ExpirationDate),
		}
	}

	return user, nil
}

// HospitalDAO reads hospitals. It never writes.
type HospitalDAO struct {
	db *database.DB
}

// NewHospitalDAO creates a new HospitalDAO
func NewHospitalDAO(db *database.DB) *HospitalDAO {
	return &HospitalDAO{db: db}
}

// FindByID returns the hospital, or nil when absent
func (dao *HospitalDAO) FindByID(ctx context.Context, id int64) (*models.Hospital, error) {
	query := `SELECT ID, NAME, ADDRESS, PHONE FROM HOSPITAL WHERE ID = ?`

	var hospital models.Hospital
	if err := dao.db.GetContext(ctx, &hospital, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hospital %d: %w", id, err)
	}

	return &hospital, nil
}

func dateOnly(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	y, m, d := t.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
