// Package store owns the live CV document, the editor preferences and the saved CV collection.
package store

import (
	"errors"
	"fmt"
)

// ErrSavedCVNotFound is returned for an unknown saved CV id.
var ErrSavedCVNotFound = errors.New("saved CV not found")

// ValidationError is returned when a mutation would break a bounds or enum check.
// State is left unchanged.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// PhotoError describes a photo that could not be loaded.
type PhotoError struct {
	Path    string
	Message string
	Cause   error
}

func (e *PhotoError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("photo error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("photo error: %s", msg)
}

func (e *PhotoError) Unwrap() error {
	return e.Cause
}
