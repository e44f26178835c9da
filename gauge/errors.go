package gauge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig marks configuration errors. They are fatal and are
	// reported before any unit runs.
	ErrConfig = errors.New("configuration error")

	// ErrState is returned when a unit lifecycle step runs out of order.
	ErrState = errors.New("invalid unit state")
)

// OptionError reports an option value outside its allowed set.
type OptionError struct {
	Option  string
	Value   string
	Allowed []string
	Err     error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf(
		"option '%s' argument '%s' is invalid. Allowed choices are %s.",
		e.Option, e.Value, strings.Join(e.Allowed, ", "),
	)
}

// Unwrap allows matching both ErrConfig and the underlying lookup error.
func (e *OptionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}

	return []error{ErrConfig, e.Err}
}
