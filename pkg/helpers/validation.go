package helpers

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/laaraari2/theatre-management-system-sub001/pkg/digits"
)

// CustomValidator wraps go-playground validator with the calendar rules
type CustomValidator struct {
	validate *validator.Validate
}

// NewCustomValidator creates a new custom validator
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("month_name", validateMonthName)

	return &CustomValidator{validate: v}
}

// Validate validates a struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// FieldErrors flattens a validation error into field -> message
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 12", fe.Field())
	case "month_name":
		return fmt.Sprintf("%s must be a single word without digits", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// validateMonthName accepts one whitespace-free token that carries no digits,
// so a month name always survives tokenization of "<day> <month> <year>"
func validateMonthName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return false
	}
	return !digits.ContainsASCII(name) && !digits.ContainsArabic(name)
}
