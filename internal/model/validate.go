package model

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
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the record set against its struct tags. The first
// failing field is returned as a MissingFieldError when the value is
// absent, or a MalformedInputError when it is present but invalid.
func (in *Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewMalformedInputError("input", nil, "struct", err.Error())
	}

	return translateFieldError(verrs[0])
}

func translateFieldError(fe validator.FieldError) error {
	field := fieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return NewMissingFieldError(field)
		}
	}

	return NewMalformedInputError(field, fe.Value(), fe.Tag(), describeTag(fe))
}

// fieldPath drops the root struct name from a validator namespace,
// e.g. "Input.lines[1].quantity" becomes "lines[1].quantity"
func fieldPath(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "numeric":
		return "must contain digits only"
	case "len":
		return fmt.Sprintf("must be %s characters long", fe.Param())
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "datetime":
		return fmt.Sprintf("must be a date in layout %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
