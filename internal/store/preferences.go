package store

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/i18n"
	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/types"
)

// Preferences returns the current editor preferences.
func (s *Store) Preferences() types.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Labels returns the label table of the selected language.
func (s *Store) Labels() *i18n.Labels {
	return i18n.MustGet(s.Preferences().Language)
}

// SetTemplate selects the skin used for previews and exports.
func (s *Store) SetTemplate(id string) error {
	if s.templateExists != nil && !s.templateExists(id) {
		return &ValidationError{Message: fmt.Sprintf("unknown template %q", id)}
	}
	return s.updatePreferences(func(p *types.Preferences) { p.TemplateID = id })
}

// SetAccentColor changes the theme color (#RRGGBB).
func (s *Store) SetAccentColor(color string) error {
	return s.updatePreferences(func(p *types.Preferences) { p.AccentColor = color })
}

// SetLanguage changes the label language.
func (s *Store) SetLanguage(lang string) error {
	if _, err := i18n.Get(lang); err != nil {
		return &ValidationError{Message: "unsupported language", Cause: err}
	}
	return s.updatePreferences(func(p *types.Preferences) { p.Language = lang })
}

// UpdateDesign replaces the design settings. Out-of-range values are rejected.
func (s *Store) UpdateDesign(d types.DesignSettings) error {
	return s.updatePreferences(func(p *types.Preferences) { p.Design = d })
}

// SetDarkMode toggles the editor's dark theme.
func (s *Store) SetDarkMode(on bool) error {
	return s.updatePreferences(func(p *types.Preferences) { p.DarkMode = on })
}

// SetPreferences validates and stores a whole preferences value.
func (s *Store) SetPreferences(p types.Preferences) error {
	if s.templateExists != nil && !s.templateExists(p.TemplateID) {
		return &ValidationError{Message: fmt.Sprintf("unknown template %q", p.TemplateID)}
	}
	return s.updatePreferences(func(cur *types.Preferences) { *cur = p })
}

// updatePreferences applies fn to a copy and commits it only when the result validates.
func (s *Store) updatePreferences(fn func(p *types.Preferences)) error {
	s.mu.Lock()
	next := s.prefs
	fn(&next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return &ValidationError{Message: "invalid preferences", Cause: err}
	}
	s.prefs = next
	s.scheduleLocked(storage.KeyPreferences, s.prefs)
	s.mu.Unlock()

	s.notifySubscribers()
	return nil
}
