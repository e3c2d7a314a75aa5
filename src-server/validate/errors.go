package validate

import (
	"errors"
	"strings"
)

var (
	ErrRequiredFieldMissing = errors.New("this field is required")
	ErrTooLong              = errors.New("value is too long")
	ErrTypeCoercion         = errors.New("value has the wrong type")
)

// FieldError is the first failed rule of one form field.
type FieldError struct {
	Field   string
	Kind    error
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// FieldErrors holds at most one error per field, in field order.
type FieldErrors []*FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any of the collected kinds.
func (fe FieldErrors) Unwrap() []error {
	errs := make([]error, len(fe))
	for i, e := range fe {
		errs[i] = e
	}
	return errs
}

// ByField is handy for templates.
func (fe FieldErrors) ByField() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Message
	}
	return m
}
