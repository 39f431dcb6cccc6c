// Package export turns the live CV document into external artifacts: a JSON backup, a
// WordprocessingML (.docx) document and a print-styled A4 view for PDF output.
package export

import "fmt"

// ImportError represents a backup file that cannot be imported. Nothing is applied.
type ImportError struct {
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("import error: %s", e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// ExportError represents a failure producing an artifact
type ExportError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s export error: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s export error: %s", e.Format, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
