package models

import "time"

// Well-known system configuration keys
const (
	ConfigKeyMinPrescriptionAmount     = "MIN_PRESCRIPTION_AMOUNT"
	DefaultMinPrescriptionAmount       = "250.00"
	DefaultMinPrescriptionAmountDetail = "Minimum prescription total accepted for an approved service"
)

// SystemConfig represents the SYSTEM_CONFIG table
type SystemConfig struct {
	ID          int64     `db:"ID" json:"id"`
	ConfigKey   string    `db:"CONFIG_KEY" json:"key"`
	ConfigValue string    `db:"CONFIG_VALUE" json:"value"`
	Description *string   `db:"DESCRIPTION" json:"description,omitempty"`
	LastUpdated time.Time `db:"LAST_UPDATED" json:"lastUpdated"`
}

// SystemConfigUpsertRequest is the body of a configuration upsert
type SystemConfigUpsertRequest struct {
	Value       string `json:"value" binding:"required,max=1024"`
	Description string `json:"description" binding:"max=1024"`
}

// SystemConfigListResponse lists every configuration entry
type SystemConfigListResponse struct {
	Configs []SystemConfig `json:"configs"`
	Total   int            `json:"total"`
}
