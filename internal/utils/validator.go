package utils

import (
	"strings"

	"calorie-tracker/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	if Validate != nil {
		return
	}
	Validate = validator.New()
	_ = Validate.RegisterValidation("meal", validateMeal)
}

// validateMeal accepts the four meal slots in any case.
func validateMeal(fl validator.FieldLevel) bool {
	v := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	for _, m := range domain.Meals {
		if v == string(m) {
			return true
		}
	}
	return false
}
