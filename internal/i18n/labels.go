// Package i18n provides the localized label tables used by renderers, exporters and notifications.
// Tables are stored as JSON files and embedded at compile time.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/cv-builder/internal/types"
)

//go:embed locales/*.json
var localeFiles embed.FS

// Default is the language used when none is chosen.
const Default = "es"

// Labels is one language's string table.
type Labels struct {
	Language            string            `json:"language"`
	Present             string            `json:"present"`
	Empty               string            `json:"empty"`
	ReferencesOnRequest string            `json:"referencesOnRequest"`
	Technologies        string            `json:"technologies"`
	Link                string            `json:"link"`
	Sections            map[string]string `json:"sections"`
	Contact             map[string]string `json:"contact"`
	DocumentTypes       map[string]string `json:"documentTypes"`
	ExpeditionPlace     string            `json:"expeditionPlace"`
	Notifications       Notifications     `json:"notifications"`
}

// Notifications are the user-visible messages for boundary events.
type Notifications struct {
	ImportOK      string `json:"importOk"`
	ImportFailed  string `json:"importFailed"`
	ExportOK      string `json:"exportOk"`
	ExportFailed  string `json:"exportFailed"`
	PhotoFailed   string `json:"photoFailed"`
	PersistFailed string `json:"persistFailed"`
	Saved         string `json:"saved"`
}

// Section returns the title of a section, falling back to its key.
func (l *Labels) Section(s types.Section) string {
	if title, ok := l.Sections[string(s)]; ok {
		return title
	}
	return string(s)
}

// ContactLabel returns the label of a contact field, falling back to its key.
func (l *Labels) ContactLabel(field string) string {
	if label, ok := l.Contact[field]; ok {
		return label
	}
	return field
}

// DocumentType returns the printed name of an identity document kind.
// The "none" kind and the empty kind have no label.
func (l *Labels) DocumentType(dt types.DocumentType) string {
	if dt == "" || dt == types.DocumentNone {
		return ""
	}
	if label, ok := l.DocumentTypes[string(dt)]; ok {
		return label
	}
	return string(dt)
}

// UnknownLanguageError is returned for a language without a label table.
type UnknownLanguageError struct {
	Language string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q (available: %s)", e.Language, strings.Join(Available(), ", "))
}

// cache stores parsed label tables to avoid repeated JSON parsing
var (
	cache   = make(map[string]*Labels)
	cacheMu sync.RWMutex
)

// Get returns the label table for a language code. An empty code selects Default.
// The returned table is shared; callers must not modify it.
func Get(lang string) (*Labels, error) {
	if lang == "" {
		lang = Default
	}

	cacheMu.RLock()
	if labels, exists := cache[lang]; exists {
		cacheMu.RUnlock()
		return labels, nil
	}
	cacheMu.RUnlock()

	data, err := localeFiles.ReadFile("locales/" + lang + ".json")
	if err != nil {
		return nil, &UnknownLanguageError{Language: lang}
	}

	var labels Labels
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to parse locale file %s: %w", lang, err)
	}

	cacheMu.Lock()
	cache[lang] = &labels
	cacheMu.Unlock()

	return &labels, nil
}

// MustGet returns the label table for a language, panicking if it does not exist.
// Use this for languages that were validated beforehand.
func MustGet(lang string) *Labels {
	labels, err := Get(lang)
	if err != nil {
		panic(fmt.Sprintf("failed to load labels: %v", err))
	}
	return labels
}

// Available lists the embedded language codes, sorted.
func Available() []string {
	entries, err := localeFiles.ReadDir("locales")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(langs)
	return langs
}

// PresentTokens returns the "present" label of every embedded language.
func PresentTokens() []string {
	var tokens []string
	for _, lang := range Available() {
		if labels, err := Get(lang); err == nil {
			tokens = append(tokens, labels.Present)
		}
	}
	return tokens
}

// ClearCache clears the label cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]*Labels)
	cacheMu.Unlock()
}
