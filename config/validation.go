package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Validator wraps go-playground/validator with custom validation logic.
// It validates loaded configuration structs before they are handed out.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator instance with custom validation rules registered.
func NewValidator() *Validator {
	v := validator.New()

	// Report koanf key names instead of Go field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("koanf")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Register custom validators
	if err := v.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return nil
	}
	if err := v.RegisterValidation("headernames", validateHeaderNames); err != nil {
		return nil
	}

	return &Validator{validate: v}
}

// GetValidator returns the underlying validator instance.
func (v *Validator) GetValidator() *validator.Validate {
	return v.validate
}

// Validate performs validation on the provided struct and returns any validation errors.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		// Handle validation errors (field-specific errors)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		// Handle invalid validation errors (non-struct inputs, etc.)
		return err
	}
	return nil
}

var defaultValidator = NewValidator()

// Validate checks a loaded configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}
	return defaultValidator.Validate(cfg)
}

// ValidationError wraps validation errors with better messages and structured field errors.
// It provides a standardized format for configuration error reporting.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a validation error for a specific field.
// It includes the field name, error message, and the invalid value.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError creates a ValidationError from go-playground/validator errors.
// It converts the errors into a more user-friendly format with descriptive messages.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: getErrorMessage(err),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}

	if len(ve.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "loglevel":
		return fmt.Sprintf("%s must be a valid log level", fe.Field())
	case "headernames":
		return fmt.Sprintf("%s contains an invalid header name", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation", fe.Field())
	}
}

// Accepts any level zerolog can parse, e.g. trace, debug, info, warn,
// error, fatal, panic, disabled.
func validateLogLevel(fl validator.FieldLevel) bool {
	_, err := zerolog.ParseLevel(strings.ToLower(fl.Field().String()))
	return err == nil
}

// Header names are restricted to RFC 7230 token characters.
var headerNamePattern = regexp.MustCompile("^[A-Za-z0-9!#$%&'*+.^_`|~-]+$")

func validateHeaderNames(fl validator.FieldLevel) bool {
	headers, ok := fl.Field().Interface().(map[string]string)
	if !ok {
		return false
	}

	for name := range headers {
		if !headerNamePattern.MatchString(name) {
			return false
		}
	}
	return true
}
