package utils

import (
	"paygate-service/internal/pkg/money"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("money_positive", validateMoneyPositive)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateMoneyPositive enforces the minimum transactable amount of one
// minor unit and a declared currency.
func validateMoneyPositive(fl validator.FieldLevel) bool {
	m, ok := fl.Field().Interface().(money.Money)
	if !ok {
		return false
	}
	return m.Amount >= 1 && m.Currency != ""
}
