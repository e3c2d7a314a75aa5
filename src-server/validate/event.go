package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"bulletin/src-server/model"
	"bulletin/src-server/utils"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	FieldTitle = "title"
	FieldDate  = "date"
	FieldTime  = "time"
)

// EventForm is what the add/update forms submit, untouched.
type EventForm struct {
	Title string
	Date  string
	Time  string
}

// EventFields is a form that passed every rule.
type EventFields struct {
	Title string
	Date  model.Date
	Time  model.TimeOfDay
}

// Rule checks one raw value. A nil error means the next rule runs.
type Rule func(raw string) *FieldError

type Validator struct {
	natural *when.Parser
	now     func() time.Time
}

type Option func(*Validator)

// WithNaturalDates accepts phrases like "next friday" when the date is not ISO.
func WithNaturalDates() Option {
	return func(v *Validator) {
		v.natural = when.New(nil)
		v.natural.Add(en.All...)
		v.natural.Add(common.All...)
	}
}

// WithClock fixes "now" for natural dates.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Event runs every field's rules in order and collects the first failure of each
// field. The returned error is a FieldErrors when non-nil.
func (v *Validator) Event(form EventForm) (EventFields, error) {
	out := EventFields{Title: utils.CleanupString(form.Title)}

	fields := []struct {
		raw   string
		rules []Rule
	}{
		{out.Title, []Rule{required(FieldTitle), maxLength(FieldTitle, model.TitleMaxLength)}},
		{strings.TrimSpace(form.Date), []Rule{v.date(FieldDate, &out.Date)}},
		{strings.TrimSpace(form.Time), []Rule{timeOfDay(FieldTime, &out.Time)}},
	}

	var errs FieldErrors
	for _, f := range fields {
		for _, rule := range f.rules {
			if fe := rule(f.raw); fe != nil {
				errs = append(errs, fe)
				break
			}
		}
	}
	if len(errs) > 0 {
		return EventFields{}, errs
	}
	return out, nil
}

func required(field string) Rule {
	return func(raw string) *FieldError {
		if raw == "" {
			return &FieldError{Field: field, Kind: ErrRequiredFieldMissing, Message: "This field is required."}
		}
		return nil
	}
}

func maxLength(field string, max int) Rule {
	return func(raw string) *FieldError {
		if utf8.RuneCountInString(raw) > max {
			return &FieldError{
				Field:   field,
				Kind:    ErrTooLong,
				Message: fmt.Sprintf("Title must be %d characters or fewer", max),
			}
		}
		return nil
	}
}

func (v *Validator) date(field string, dst *model.Date) Rule {
	return func(raw string) *FieldError {
		if d, err := model.ParseDate(raw); err == nil {
			*dst = d
			return nil
		}
		if v.natural != nil && raw != "" {
			if r, err := v.natural.Parse(raw, v.now()); err == nil && r != nil {
				*dst = model.DateOf(r.Time)
				return nil
			}
		}
		return &FieldError{Field: field, Kind: ErrTypeCoercion, Message: "Not a valid date value."}
	}
}

// browsers send HH:MM from <input type=time> unless step is set
var timeOfDayLayouts = []string{model.TimeOfDayLayout, "15:04"}

func timeOfDay(field string, dst *model.TimeOfDay) Rule {
	return func(raw string) *FieldError {
		for _, layout := range timeOfDayLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				*dst = model.TimeOfDayOf(t)
				return nil
			}
		}
		return &FieldError{Field: field, Kind: ErrTypeCoercion, Message: "Not a valid time value."}
	}
}
