package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("road_ids", validateRoadIDs)
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// validateRoadIDs - идентификаторы дорог симулятора неотрицательные
func validateRoadIDs(fl validator.FieldLevel) bool {
	ids, ok := fl.Field().Interface().([]int64)
	if !ok {
		return false
	}
	for _, id := range ids {
		if id < 0 {
			return false
		}
	}
	return true
}
