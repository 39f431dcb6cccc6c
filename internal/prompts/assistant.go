// Package prompts builds the copy-paste prompt block handed to an external AI chat tool.
// The review prompt is embedded as one text/template per language.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/cv-builder/internal/types"
)

//go:embed cv_assistant.json
var assistantJSON []byte

var (
	parseOnce sync.Once
	assistant map[string]*template.Template
	parseErr  error
)

// assistantData fills the review prompt. Values are inserted verbatim, never re-expanded.
type assistantData struct {
	Name     string
	Document string
}

func templates() (map[string]*template.Template, error) {
	parseOnce.Do(func() {
		var raw map[string]string
		if err := json.Unmarshal(assistantJSON, &raw); err != nil {
			parseErr = fmt.Errorf("failed to parse assistant prompts: %w", err)
			return
		}
		assistant = make(map[string]*template.Template, len(raw))
		for lang, text := range raw {
			tmpl, err := template.New(lang).Option("missingkey=error").Parse(text)
			if err != nil {
				parseErr = fmt.Errorf("failed to parse %s assistant prompt: %w", lang, err)
				return
			}
			assistant[lang] = tmpl
		}
	})
	return assistant, parseErr
}

// Languages lists the languages that have a review prompt.
func Languages() ([]string, error) {
	tmpls, err := templates()
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(tmpls))
	for lang := range tmpls {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

// Build combines the localized review prompt with an indented JSON snapshot of doc.
// It is plain string templating; nothing is sent anywhere.
func Build(language string, doc types.CVDocument) (string, error) {
	tmpls, err := templates()
	if err != nil {
		return "", err
	}
	tmpl, ok := tmpls[language]
	if !ok {
		return "", fmt.Errorf("no assistant prompt for language %q", language)
	}

	snapshot, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize document: %w", err)
	}

	name := doc.Personal.FullName()
	if name == "" {
		name = "CV"
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, assistantData{Name: name, Document: string(snapshot)}); err != nil {
		return "", fmt.Errorf("failed to build %s prompt: %w", language, err)
	}
	return b.String(), nil
}
