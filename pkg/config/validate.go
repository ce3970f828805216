package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report koanf keys (log.level) instead of Go field names (Log.Level).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError reports a configuration key with an unacceptable value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "config: validation failed"
	}
	if e.Reason == "" {
		return "config: " + e.Field + ": invalid"
	}
	return "config: " + e.Field + ": " + e.Reason
}

// Validate checks cfg against its struct tags. The first failing key is
// returned as a *ValidationError.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("config: validate: %w", err)
	}

	fe := verrs[0]
	return &ValidationError{
		Field:  strings.TrimPrefix(fe.Namespace(), "Config."),
		Reason: reason(fe),
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ",")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
