package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/kma-contact-api/internal/dto"
	"github.com/noah-isme/kma-contact-api/internal/models"
)

// FieldViolation describes one failed constraint on a request field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every violated constraint of a rejected submission.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateContact(v *validator.Validate, req dto.ContactRequest) (models.ContactSubmission, error) {
	if err := v.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return models.ContactSubmission{}, err
		}
		violations := make([]FieldViolation, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			violations = append(violations, FieldViolation{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: violationMessage(fe),
			})
		}
		return models.ContactSubmission{}, &ValidationError{Violations: violations}
	}

	return models.ContactSubmission{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       optional(req.Phone),
		Business:    optional(req.Business),
		Budget:      optional(req.Budget),
		Description: req.Description,
	}, nil
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// optional copies the value so the submission never aliases request memory.
func optional(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
