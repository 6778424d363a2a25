package validation

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ecoshare/backend/internal/pkg/helpers"
)

// Custom validation tags
const (
	TagISODate  = "isodate"
	TagNotBlank = "notblank"
)

// ValidISODate reports whether the field holds a date helpers.ParseDate accepts.
func ValidISODate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true // leave emptiness to "required"
	}
	_, err := helpers.ParseDate(s)
	return err == nil
}

// NotBlank rejects strings made only of whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Register installs the custom tags on v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagISODate, ValidISODate); err != nil {
		return err
	}
	return v.RegisterValidation(TagNotBlank, NotBlank)
}

// RegisterGinValidators installs the custom tags on gin's binding engine.
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}
