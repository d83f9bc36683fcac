package validator

import (
	"log"
	"strings"

	"jobboard_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// JobOrderingFields are the columns a job listing may be ordered by.
var JobOrderingFields = map[string]bool{
	"created_at":   true,
	"company_name": true,
	"title":        true,
}

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-signup-role", validateSignupRole)
	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-ordering", validateOrdering)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseUserRole(value)
	return ok
}

// Admins are never self-registered.
func validateSignupRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	role, ok := models.ParseUserRole(value)
	return ok && role != models.UserRoleAdmin
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ApplicationStatus(value).IsValid()
}

func validateOrdering(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return JobOrderingFields[strings.TrimPrefix(value, "-")]
}
