package utils

import (
	"strings"

	"github.com/google/uuid"
)

const approvalCodePrefix = "AP"

// GenerateAuditID generates a unique status audit ID
func GenerateAuditID() string {
	return "AUDIT-" + uuid.New().String()
}

// GenerateApprovalCode returns "AP" followed by the first 8 hex digits of a random UUID, upper-cased
func GenerateApprovalCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return approvalCodePrefix + strings.ToUpper(hex[:8])
}
