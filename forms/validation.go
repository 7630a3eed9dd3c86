// Package forms holds the input forms of the newsroom: struct tag validation
// through validator, cross field rules and the choice sets a submitted id has
// to belong to.
package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const MsgPasswordMismatch = "The two password fields didn't match."

// ValidationError is user facing feedback about a rejected form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func invalid(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct tag rules of form.
func check(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errors.Wrap(err, "fail to validate form")
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return invalid(messages...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: this field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("%s: enter a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("%s: ensure this value has at least %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s: ensure this value has at most %s characters.", fe.Field(), fe.Param())
	case "eqfield":
		return MsgPasswordMismatch
	case "oneof":
		return fmt.Sprintf("%s: select one of %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s: enter a valid value.", fe.Field())
	}
}

// normalizeID turns a blank optional id into nil.
func normalizeID(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	return &trimmed
}

// outside returns the submitted ids missing from allowed.
func outside(submitted []string, allowed map[string]bool) []string {
	var res []string
	for _, id := range submitted {
		if !allowed[id] {
			res = append(res, id)
		}
	}
	return res
}

func choiceError(field string, ids []string) *ValidationError {
	return invalid(fmt.Sprintf("%s: select a valid choice. %s is not one of the available choices.", field, strings.Join(ids, ", ")))
}
