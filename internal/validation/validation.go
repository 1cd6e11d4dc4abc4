// Package validation checks submitted form values before anything is written.
// Failures are reported per field and are never fatal: callers hand the
// field map back to the client so the input can be corrected.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to the reason it was rejected.
type Errors map[string]string

// Add records msg for field unless the field already has a reason.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Err returns nil when no field failed, otherwise an *Error wrapping e.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{Fields: e}
}

// Error is returned when one or more fields fail validation. Cause, when set,
// is the domain error behind a field failure (e.g. a taken username).
type Error struct {
	Fields Errors
	Cause  error
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FieldsOf extracts the field map from err if it is (or wraps) an *Error.
func FieldsOf(err error) (Errors, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

// Field messages
const (
	MsgRequired      = "This field is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgPasswordMatch = "The two password fields didn't match."
	MsgWholeNumber   = "Enter a whole number."
	MsgInvalidDate   = "Enter a valid date/time."
	MsgLettersOnly   = "Enter letters only."
	MsgUsernameTaken = "A user with that username already exists."
	MsgEmailTaken    = "A user with that email already exists."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

// notBlank rejects strings made only of whitespace (spaces, tabs, newlines...).
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates a tagged form struct and converts failures into Errors.
func Struct(form interface{}) Errors {
	errs := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable with a non-struct argument, which is a programming error.
		panic(fmt.Sprintf("validation: %v", err))
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "notblank", "gt":
		return MsgRequired
	case "email":
		return MsgInvalidEmail
	case "eqfield":
		return MsgPasswordMatch
	case "alpha":
		return MsgLettersOnly
	case "len":
		return fmt.Sprintf("Ensure this value has exactly %s characters.", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
				fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	}
	return "Enter a valid value."
}
