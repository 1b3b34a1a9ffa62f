package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	approvalCodeRegex = regexp.MustCompile(`^AP[0-9A-F]{8}$`)
	configKeyRegex    = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
)

// MoneyScale is the number of fraction digits stored for monetary amounts
const MoneyScale = 2

// MaxMoney is the largest amount a DECIMAL(12,2) column holds
var MaxMoney = decimal.RequireFromString("9999999999.99")

// ValidateApprovalCode validates approval code format
func ValidateApprovalCode(code string) error {
	if code == "" {
		return fmt.Errorf("approval code cannot be empty")
	}
	if !approvalCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid approval code format: %s", code)
	}
	return nil
}

// ValidateConfigKey validates a system configuration key
func ValidateConfigKey(key string) error {
	if key == "" {
		return fmt.Errorf("config key cannot be empty")
	}
	if len(key) > 100 {
		return fmt.Errorf("config key too long (max 100 characters)")
	}
	if !configKeyRegex.MatchString(key) {
		return fmt.Errorf("config key contains invalid characters: %s", key)
	}
	return nil
}

// ValidateMoney checks that amount is non-negative, at most MaxMoney, with at most two fraction digits
func ValidateMoney(fieldName string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s must not be negative", fieldName)
	}
	if amount.GreaterThan(MaxMoney) {
		return fmt.Errorf("%s must not exceed %s", fieldName, MaxMoney.StringFixed(MoneyScale))
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return fmt.Errorf("%s must have at most %d decimal places", fieldName, MoneyScale)
	}
	return nil
}

// SanitizeString removes dangerous characters from user input
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // Default limit
	}
	if limit > 100 {
		return 100 // Max limit
	}
	return limit
}

// ValidateOffset validates pagination offset
func ValidateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}
