package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
)

var validate = validator.New()

// ValidateStruct validates a request body against its struct tags and
// returns a Validation error listing every failed field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var msgs []string
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must be at least "+err.Param()+" characters")
		case "max":
			msgs = append(msgs, field+" must be at most "+err.Param()+" characters")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+err.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}

	return apperr.New(apperr.Validation, strings.Join(msgs, ", "))
}
