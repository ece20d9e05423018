package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldHint names the flag and environment variable that set a field, e.g.
// "--port or IMGANALYSIS_PORT".
func fieldHint(structType reflect.Type, fieldName string) string {
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}

	flagName := strings.ToLower(fieldName)
	envName := strings.ToUpper(fieldName)
	if field, found := structType.FieldByName(fieldName); found {
		if tag := field.Tag.Get("flag"); tag != "" {
			flagName = tag
		}
		if tag := field.Tag.Get("mapstructure"); tag != "" {
			envName = strings.ToUpper(tag)
		}
	}
	return fmt.Sprintf("--%s or %s_%s", flagName, envPrefix, envName)
}

func formatValidationError(structType reflect.Type, errs validator.ValidationErrors) error {
	var messages []string
	for _, err := range errs {
		field := err.Field()
		hint := fieldHint(structType, field)

		var msg string
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required, set it with %s", field, hint)
		case "url":
			msg = fmt.Sprintf("%s must be an absolute URL, got %q (%s)", field, err.Value(), hint)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s, got %v (%s)", field, err.Param(), err.Value(), hint)
		case "max":
			msg = fmt.Sprintf("%s must be at most %s, got %v (%s)", field, err.Param(), err.Value(), hint)
		default:
			msg = fmt.Sprintf("%s failed %s validation (%s)", field, err.Tag(), hint)
		}
		messages = append(messages, msg)
	}

	if len(messages) == 1 {
		return fmt.Errorf("invalid configuration: %s", messages[0])
	}
	return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(messages, "\n  - "))
}

func validateConfig[T any](cfg T) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return formatValidationError(reflect.TypeOf(cfg), validationErrors)
	}
	return fmt.Errorf("validating configuration: %w", err)
}
