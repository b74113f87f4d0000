// Package timestamppkg parses the event timestamps accepted by the app.
package timestamppkg

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidTimestamp indicates that a timestamp matches none of the supported layouts.
var ErrInvalidTimestamp = errors.New("timestamp must be RFC3339")

// Layouts holds the supported timestamp layouts in the order they are tried.
var Layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// Parse parses s with the first matching layout and returns the time in UTC.
func Parse(s string) (time.Time, error) {
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidTimestamp
}

// ValidTimestamp validates whether the field holds a parseable timestamp.
var ValidTimestamp validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := Parse(s)
		return err == nil
	}

	return false
}
