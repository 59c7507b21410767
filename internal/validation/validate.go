package validation

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format accepted for event dates.
const DateLayout = "2006-01-02"

// MinPasswordLength is the minimum accepted password length, counted in runes.
const MinPasswordLength = 6

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	timePattern  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// Email reports whether s looks like an email address: non-empty local part,
// "@", non-empty domain containing at least one dot.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Password reports whether s satisfies the password policy.
func Password(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLength
}

// FutureDate reports whether s is a calendar date strictly after the current
// moment. The result depends on the wall clock at evaluation time; that is
// intentional, since event dates are only meaningful relative to "now".
func FutureDate(s string) bool {
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return parsed.After(time.Now())
}

// ClockTime reports whether s is a 24-hour clock time in H[H]:MM form with
// hour 0-23 and minute 00-59.
func ClockTime(s string) bool {
	return timePattern.MatchString(s)
}

// Register installs the custom validations used by request payload structs:
// "future_date" and "hhmm".
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		return FutureDate(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return ClockTime(fl.Field().String())
	})
}
