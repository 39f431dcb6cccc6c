// Package schemas embeds the JSON Schemas of the artifacts the CV builder reads and writes.
package schemas

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.schema.json
var files embed.FS

// Schema file names.
const (
	CVDocument  = "cv_document.schema.json"
	Preferences = "preferences.schema.json"
	SavedList   = "saved_list.schema.json"
)

// Read returns the raw schema document.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files.
func Names() []string {
	names, _ := fs.Glob(files, "*.schema.json")
	sort.Strings(names)
	return names
}
