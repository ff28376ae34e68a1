package extract

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// CapabilityError wraps a failed call to the semantic-extraction capability.
type CapabilityError struct {
	Err error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("extraction capability: %v", e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// MalformedOutputError reports capability output that is still not a
// structured array after sanitization.
type MalformedOutputError struct {
	Err error
	Raw string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed capability output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// IsCapabilityFailure returns true if err is (or wraps) a *CapabilityError.
func IsCapabilityFailure(err error) bool {
	var ce *CapabilityError
	return errors.As(err, &ce)
}

// IsMalformedOutput returns true if err is (or wraps) a *MalformedOutputError.
func IsMalformedOutput(err error) bool {
	var me *MalformedOutputError
	return errors.As(err, &me)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
