// Package rendering projects a CV document through interchangeable HTML templates (skins)
// into a paginated A4 visual document.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing a skin template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a rendering failure caused by the inputs (bad color, bad design settings)
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// MeasureError represents a failure measuring the laid-out height of a document
type MeasureError struct {
	Message string
	Cause   error
}

func (e *MeasureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("measure error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("measure error: %s", e.Message)
}

func (e *MeasureError) Unwrap() error {
	return e.Cause
}
