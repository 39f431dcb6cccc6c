//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Default presentation values.
const (
	DefaultTemplate    = "classic"
	DefaultAccentColor = "#2563eb"
	DefaultLanguage    = "es"
)

// DesignSettings are presentation knobs applied uniformly by every skin.
type DesignSettings struct {
	FontFamily string `json:"fontFamily" validate:"required"`
	FontSize   int    `json:"fontSize" validate:"min=12,max=20"`
	MarginTop  int    `json:"marginTop" validate:"min=0,max=200"`
	SectionGap int    `json:"sectionGap" validate:"min=0,max=50"`
}

// DefaultDesign returns the settings used when none are chosen.
func DefaultDesign() DesignSettings {
	return DesignSettings{
		FontFamily: "Inter",
		FontSize:   14,
		MarginTop:  40,
		SectionGap: 24,
	}
}

// Validate checks the bounds of each setting.
func (d *DesignSettings) Validate() error {
	return validate.Struct(d)
}

// Preferences are the persisted editor choices that sit next to the document.
type Preferences struct {
	TemplateID  string         `json:"templateId" validate:"required"`
	AccentColor string         `json:"accentColor" validate:"required,hexcolor"`
	Language    string         `json:"language" validate:"required,oneof=es en fr"`
	Design      DesignSettings `json:"design"`
	DarkMode    bool           `json:"darkMode"`
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		TemplateID:  DefaultTemplate,
		AccentColor: DefaultAccentColor,
		Language:    DefaultLanguage,
		Design:      DefaultDesign(),
	}
}

// Validate checks every preference, including the nested design settings.
func (p *Preferences) Validate() error {
	return validate.Struct(p)
}

// ValidatePersonal checks the enumerated personal fields.
func ValidatePersonal(p *PersonalInfo) error {
	return validate.Struct(p)
}

// SavedCV is a named, independent snapshot of a document.
type SavedCV struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Data         CVDocument `json:"data"`
	Template     string     `json:"template"`
	LastModified time.Time  `json:"lastModified"`
}

// Clone deep-copies the snapshot.
func (s SavedCV) Clone() SavedCV {
	out := s
	out.Data = s.Data.Clone()
	return out
}

var validate = validator.New()
