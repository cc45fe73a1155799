package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/novakeep/stakevault/internal/domain"
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

	// Register custom validations for ledger enums
	_ = v.RegisterValidation("locktier", validateLockTier)
	_ = v.RegisterValidation("skilltype", validateSkillType)
	_ = v.RegisterValidation("rarity", validateRarity)

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

	// Check if it's a validator.ValidationErrors
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
		case "locktier":
			errs[field] = "Invalid lock tier. Valid tiers: 0, 30, 90, 180, 365"
		case "skilltype":
			errs[field] = "Invalid skill type"
		case "rarity":
			errs[field] = "Invalid rarity"
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// Custom validation function for lock tiers. The zero value is the flexible
// tier and is legitimate, so this only rejects unknown day counts.
func validateLockTier(fl validator.FieldLevel) bool {
	return domain.LockTier(fl.Field().Int()).Valid()
}

// Custom validation function for skill types
func validateSkillType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return domain.SkillType(strings.ToLower(value)).Valid()
}

// Custom validation function for rarities
func validateRarity(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return domain.Rarity(strings.ToLower(value)).Valid()
}
