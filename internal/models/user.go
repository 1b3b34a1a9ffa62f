package models

import "time"

// Policy is an insurance policy attached to a user
type Policy struct {
	ID                 int64     `db:"POLICY_ID" json:"id"`
	PolicyNumber       string    `db:"POLICY_NUMBER" json:"policyNumber"`
	CoveragePercentage float64   `db:"COVERAGE_PERCENTAGE" json:"coveragePercentage"`
	ExpirationDate     time.Time `db:"EXPIRATION_DATE" json:"expirationDate"`
}

// User is a read-only view of an insured user
type User struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Status string  `json:"status"`
	Policy *Policy `json:"policy,omitempty"`
}

// Hospital is a read-only view of a hospital
type Hospital struct {
	ID      int64  `db:"ID" json:"id"`
	Name    string `db:"NAME" json:"name"`
	Address string `db:"ADDRESS" json:"address"`
	Phone   string `db:"PHONE" json:"phone"`
}
