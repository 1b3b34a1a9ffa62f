package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/healthcover/service-approval-api/pkg/utils"
)

var registerOnce sync.Once
var registerErr error

// RegisterValidators installs the custom binding rules on gin's validator. Safe to call repeatedly.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding validator is not go-playground/validator")
			return
		}

		// validate decimals through their string form
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		registerErr = v.RegisterValidation("nonneg_decimal", nonNegativeDecimal)
	})
	return registerErr
}

func nonNegativeDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return utils.ValidateMoney(fl.FieldName(), d) == nil
}

// bindingErrorDetails flattens validator errors into one readable line
func bindingErrorDetails(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error(), false
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "nonneg_decimal":
			msgs = append(msgs, fmt.Sprintf("%s must be a non-negative amount with at most %d decimal places", fe.Field(), utils.MoneyScale))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; "), true
}
