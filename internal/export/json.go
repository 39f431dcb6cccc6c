package export

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
	embedded "github.com/jonathan/cv-builder/schemas"
)

// MarshalSnapshot serializes the document verbatim as indented JSON.
func MarshalSnapshot(doc types.CVDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &ExportError{Format: FormatJSON, Message: "failed to marshal document", Cause: err}
	}
	return append(data, '\n'), nil
}

// JSONFilename is the backup file name for the given day.
func JSONFilename(now time.Time) string {
	return "cv_backup_" + now.Format("2006-01-02") + ".json"
}

// ParseSnapshot decodes a backup file into a patch carrying every key the file sets.
// Malformed JSON or a missing "personal" object is rejected as a whole.
func ParseSnapshot(data []byte) (types.DocumentPatch, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !json.Valid(data) {
		return types.DocumentPatch{}, &ImportError{Message: "file is not valid JSON"}
	}
	if err := schemas.Validate(embedded.CVDocument, data); err != nil {
		return types.DocumentPatch{}, &ImportError{Message: "file is not a CV backup", Cause: err}
	}

	var patch types.DocumentPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return types.DocumentPatch{}, &ImportError{Message: "file does not match the CV document shape", Cause: err}
	}
	if patch.Personal == nil {
		return types.DocumentPatch{}, &ImportError{Message: `missing "personal" section`}
	}
	return patch, nil
}
