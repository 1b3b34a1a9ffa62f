package configtypes

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/healthcover/service-approval-api/pkg/utils"
)

// StringValueHandler accepts any value
type StringValueHandler struct{}

func (h *StringValueHandler) GetType() string {
	return "string"
}

func (h *StringValueHandler) Validate(value string) error {
	return nil
}

func (h *StringValueHandler) Normalize(value string) string {
	return value
}

func (h *StringValueHandler) GetSpec() ValueSpec {
	return ValueSpec{Type: h.GetType(), Description: "Free text", Example: "enabled"}
}

// MoneyValueHandler accepts non-negative amounts with at most two decimal places
type MoneyValueHandler struct{}

func (h *MoneyValueHandler) GetType() string {
	return "money"
}

func (h *MoneyValueHandler) Validate(value string) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("value %q is not a decimal amount", value)
	}
	return utils.ValidateMoney("value", amount)
}

// Normalize stores amounts with exactly two decimal places
func (h *MoneyValueHandler) Normalize(value string) string {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return amount.StringFixed(utils.MoneyScale)
}

func (h *MoneyValueHandler) GetSpec() ValueSpec {
	return ValueSpec{Type: h.GetType(), Description: "Non-negative amount with at most two decimal places", Example: "250.00"}
}
