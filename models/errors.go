package models

import (
	"errors"
	"strings"
)

// ValidationError carries human-readable, field-level messages.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *ValidationError) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// Merge appends the messages of err when it is a ValidationError and
// reports whether it was one.
func (e *ValidationError) Merge(err error) bool {
	var other *ValidationError
	if !errors.As(err, &other) {
		return false
	}
	e.Messages = append(e.Messages, other.Messages...)
	return true
}

// OrNil returns nil when no message was collected.
func (e *ValidationError) OrNil() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}

// ValidationMessages extracts the messages of err, or nil if err is not a
// ValidationError.
func ValidationMessages(err error) []string {
	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return invalid.Messages
	}
	return nil
}
