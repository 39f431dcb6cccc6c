package server

import (
	"net/http"

	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/types"
)

// PreferencesPatch carries the preference fields to change.
type PreferencesPatch struct {
	TemplateID  *string               `json:"templateId,omitempty"`
	AccentColor *string               `json:"accentColor,omitempty"`
	Language    *string               `json:"language,omitempty"`
	Design      *types.DesignSettings `json:"design,omitempty"`
	DarkMode    *bool                 `json:"darkMode,omitempty"`
}

// Apply merges the patch into p.
func (pp PreferencesPatch) Apply(p *types.Preferences) {
	if pp.TemplateID != nil {
		p.TemplateID = *pp.TemplateID
	}
	if pp.AccentColor != nil {
		p.AccentColor = *pp.AccentColor
	}
	if pp.Language != nil {
		p.Language = *pp.Language
	}
	if pp.Design != nil {
		p.Design = *pp.Design
	}
	if pp.DarkMode != nil {
		p.DarkMode = *pp.DarkMode
	}
}

// TemplateInfo describes one skin.
type TemplateInfo struct {
	Name        string                `json:"name"`
	InlineEdit  bool                  `json:"inlineEdit"`
	EmptyPolicy rendering.EmptyPolicy `json:"emptyPolicy"`
	Layout      rendering.Layout      `json:"layout"`
	Selected    bool                  `json:"selected"`
}

// handleGetPreferences returns the editor preferences
func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Preferences())
}

// handlePatchPreferences changes some preferences; invalid values leave all of them unchanged
func (s *Server) handlePatchPreferences(w http.ResponseWriter, r *http.Request) {
	var patch PreferencesPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	prefs := s.store.Preferences()
	patch.Apply(&prefs)
	if err := s.store.SetPreferences(prefs); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Preferences())
}

// handleListTemplates lists the skins in display order
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	current := s.store.Preferences().TemplateID
	names := s.registry.Names()
	templates := make([]TemplateInfo, 0, len(names))
	for _, name := range names {
		skin, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		templates = append(templates, TemplateInfo{
			Name:        skin.Name(),
			InlineEdit:  skin.SupportsInlineEdit(),
			EmptyPolicy: skin.EmptyPolicy(),
			Layout:      skin.Layout,
			Selected:    name == current,
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": templates})
}
