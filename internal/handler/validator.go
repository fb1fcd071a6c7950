package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("hhmm", validateHHMM)
	_ = v.RegisterValidation("slotnumber", validateSlotNumber)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// This prevents leaking internal struct names and provides cleaner error messages
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "hhmm":
			errs[field] = "Must be a 24-hour HH:MM time"
		case "slotnumber":
			errs[field] = fmt.Sprintf("Must be between 1 and %d", domain.SlotCount)
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "ltefield":
			errs[field] = fmt.Sprintf("Must not exceed %s", strings.ToLower(e.Param()))
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// validateHHMM accepts zero-padded 24-hour times
func validateHHMM(fl validator.FieldLevel) bool {
	return domain.IsCanonicalTime(fl.Field().String())
}

// validateSlotNumber accepts 1..SlotCount; pair with omitempty for optional fields
func validateSlotNumber(fl validator.FieldLevel) bool {
	return domain.ValidateSlotNumber(int(fl.Field().Int())) == nil
}
