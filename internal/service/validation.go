package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
)

// Amounts are stored as NUMERIC(19, 4).
const amountScale = 4

var (
	validate  = newValidator()
	maxAmount = decimal.New(1, 19-amountScale)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// The custom type func hands validators a float64, so the exact value is
	// read back from the struct.
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		d, ok := fl.Parent().FieldByName(fl.StructFieldName()).Interface().(decimal.Decimal)
		return ok && fitsAmount(d)
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		return code == "" || money.GetCurrency(strings.ToUpper(code)) != nil
	})
	return v
}

func fitsAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(amountScale)) && d.Abs().LessThan(maxAmount)
}

// validateCommand turns struct tag violations into one InvalidInput error.
func validateCommand(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ledgererr.InvalidInput("%v", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fieldMessage(fe)))
	}
	return ledgererr.InvalidInput("%s", strings.Join(problems, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		return "is too long"
	case "amount":
		return fmt.Sprintf("must be below %s with at most %d decimal places", maxAmount, amountScale)
	case "currency":
		return "unknown currency code"
	default:
		return "invalid value"
	}
}
