package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports invalid field values keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("task_category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks every constrained field of t.
func (t *Task) Validate() error {
	return translate(validate.Struct(t))
}

// Validate checks only the supplied fields, using the same rules as
// Task.Validate. A null on a non-nullable field is an error.
func (f TaskFields) Validate() error {
	out := &ValidationError{Fields: make(map[string]string)}
	for _, name := range f.nullFields() {
		out.Fields[name] = "This field may not be null."
	}

	if names := f.structFields(); len(names) > 0 {
		var t Task
		f.ApplyTo(&t)
		err := translate(validate.StructPartial(&t, names...))
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			for name, msg := range verr.Fields {
				out.Fields[name] = msg
			}
		case err != nil:
			return err
		}
	}

	if len(out.Fields) == 0 {
		return nil
	}
	return out
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "task_category":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}
