package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/harshbansal7/bills-lifecycle-system/internal/models"
)

// RegisterValidators installs custom binding validations on gin's validator
// engine. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("subdivision", func(fl validator.FieldLevel) bool {
		return models.ValidSubDivision(fl.Field().String())
	})
}
