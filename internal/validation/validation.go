package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var actionTypePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,63}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("actiontype", func(fl validator.FieldLevel) bool {
		return actionTypePattern.MatchString(fl.Field().String())
	})
	return v
}

// FieldError is the first constraint a struct failed.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field '%s' failed validation: %s", e.Field, e.Message())
}

// Message renders the failed constraint for API clients.
func (e *FieldError) Message() string {
	switch e.Tag {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + e.Param + " characters"
	case "ne":
		return "must not be " + e.Param
	case "actiontype":
		return "must be lowercase letters, digits and dashes"
	case "oneof":
		return "must be one of: " + e.Param
	default:
		return e.Tag
	}
}

// ValidateStruct returns a *FieldError for the first failing field, or nil.
func ValidateStruct(s interface{}) error {
	if s == nil {
		return nil
	}
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("validator: expected a struct, got %T", s)
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &FieldError{Field: ve[0].Field(), Tag: ve[0].Tag(), Param: ve[0].Param()}
	}
	return fmt.Errorf("validation failed: %w", err)
}
