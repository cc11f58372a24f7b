package imposition

import (
	"errors"
	"fmt"
)

// Sentinels for the error kinds callers branch on.
var (
	ErrInput  = errors.New("input error")
	ErrConfig = errors.New("configuration error")

	// ErrNotMultipleOfFour is a contract violation: padding must run before planning.
	ErrNotMultipleOfFour = errors.New("page count is not a multiple of 4")
)

// InputError reports a page sequence that cannot be imposed.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s", e.Reason)
}

func (e *InputError) Is(target error) bool { return target == ErrInput }

// ConfigError reports an invalid imposition option.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s=%d %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// ErrNoPages is returned when the page source yields nothing to impose.
var ErrNoPages = &InputError{Reason: "page source is empty"}
