// Package validator checks decoded request bodies. Struct tags understood by
// go-playground/validator cover the declarative rules; types that need
// cross-field checks add them in their Validate method.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/garrettladley/moyo/internal/xerrors"
)

type Validator interface {
	// Validate returns a message per invalid field, keyed by its JSON name,
	// or nil when the value is acceptable.
	Validate() map[string]string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func Validate(v Validator) *xerrors.Error {
	if errs := v.Validate(); len(errs) > 0 {
		return xerrors.Validation(errs)
	}
	return nil
}

// Fields runs the `validate` struct tags of s. The result has one message
// per failing field and is nil when every rule passes.
func Fields(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"non_field_errors": err.Error()}
	}
	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = message(fe)
		}
	}
	return errs
}

// Merge folds extra into errs without overwriting messages already present.
func Merge(errs, extra map[string]string) map[string]string {
	for field, msg := range extra {
		if errs == nil {
			errs = make(map[string]string, len(extra))
		}
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "invalid value"
	}
}
