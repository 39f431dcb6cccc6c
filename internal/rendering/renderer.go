package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/cv-builder/internal/i18n"
	"github.com/jonathan/cv-builder/internal/types"
)

//go:embed templates/*.gohtml templates/css/*.css
var templateFiles embed.FS

// EmptyPolicy is how a skin treats a section with nothing in it.
type EmptyPolicy string

// Empty policies.
const (
	// OmitEmpty leaves empty sections out.
	OmitEmpty EmptyPolicy = "omit"
	// Placeholder shows a localized "no data yet" notice.
	Placeholder EmptyPolicy = "placeholder"
)

// Renderer is the contract shared by every skin. Render must be pure: identical arguments
// produce byte-identical output.
type Renderer interface {
	Name() string
	SupportsInlineEdit() bool
	EmptyPolicy() EmptyPolicy
	Render(doc types.CVDocument, accentColor string, design *types.DesignSettings) (*VisualDocument, error)
}

// VisualDocument is the laid-out CV: a stylesheet plus the #cv-root markup.
type VisualDocument struct {
	Template   string
	Title      string
	InlineEdit bool
	Design     types.DesignSettings
	Style      string
	Body       string
	Sections   []types.Section
}

// HTML returns a standalone page holding the document.
func (v *VisualDocument) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(v.Title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(v.Style)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(v.Body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// Layout names the markup skeleton a skin uses.
type Layout string

// Layouts.
const (
	LayoutStacked Layout = "stacked"
	LayoutSidebar Layout = "sidebar"
)

// asideSections are moved to the side column by the sidebar layout.
var asideSections = map[types.Section]bool{
	types.SectionHardSkills:     true,
	types.SectionSoftSkills:     true,
	types.SectionSkills:         true,
	types.SectionLanguages:      true,
	types.SectionCertifications: true,
}

// Skin is a thin layout descriptor consuming a Plan.
type Skin struct {
	ID         string
	Layout     Layout
	Empty      EmptyPolicy
	InlineEdit bool
	// HeaderStyle selects a header variant inside the layout ("centered", "banner", "left").
	HeaderStyle string
	Labels      *i18n.Labels

	tmpl *template.Template
	css  string
}

// Name returns the skin id.
func (s *Skin) Name() string { return s.ID }

// SupportsInlineEdit reports whether personal fields are editable in place.
func (s *Skin) SupportsInlineEdit() bool { return s.InlineEdit }

// EmptyPolicy returns how empty sections are shown.
func (s *Skin) EmptyPolicy() EmptyPolicy { return s.Empty }

// WithLabels returns a copy of the skin rendering with other labels.
func (s *Skin) WithLabels(labels *i18n.Labels) *Skin {
	out := *s
	out.Labels = labels
	return &out
}

// pageData is what the layout templates receive.
type pageData struct {
	Skin        string
	Layout      Layout
	HeaderStyle string
	InlineEdit  bool
	Design      types.DesignSettings
	Header      Header
	PhotoURL    template.URL
	Main        []sectionData
	Aside       []sectionData
}

type sectionData struct {
	SectionView
	ID          string
	Placeholder bool
	EmptyLabel  string
	TechLabel   string
	LinkLabel   string
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Render lays doc out with this skin.
func (s *Skin) Render(doc types.CVDocument, accentColor string, design *types.DesignSettings) (*VisualDocument, error) {
	labels := s.Labels
	if labels == nil {
		labels = i18n.MustGet(i18n.Default)
	}

	if accentColor == "" {
		accentColor = types.DefaultAccentColor
	}
	if !hexColor.MatchString(accentColor) {
		return nil, &RenderError{Message: fmt.Sprintf("invalid accent color %q", accentColor)}
	}

	settings := types.DefaultDesign()
	if design != nil {
		settings = *design
	}
	if err := settings.Validate(); err != nil {
		return nil, &RenderError{Message: "invalid design settings", Cause: err}
	}

	plan := BuildPlan(doc, labels)
	data := pageData{
		Skin:        s.ID,
		Layout:      s.Layout,
		HeaderStyle: s.HeaderStyle,
		InlineEdit:  s.InlineEdit,
		Design:      settings,
		Header:      plan.Header,
	}
	if plan.Header.HasPhoto && strings.HasPrefix(plan.Header.Photo, "data:image/") {
		data.PhotoURL = template.URL(plan.Header.Photo) //nolint:gosec // only image data URIs reach here
	}

	var rendered []types.Section
	for _, section := range plan.Sections {
		if !section.Populated && s.Empty == OmitEmpty {
			continue
		}
		sd := sectionData{
			SectionView: section,
			ID:          "cv-section-" + string(section.Key),
			Placeholder: !section.Populated,
			EmptyLabel:  labels.Empty,
			TechLabel:   labels.Technologies,
			LinkLabel:   labels.Link,
		}
		if s.Layout == LayoutSidebar && asideSections[section.Key] {
			data.Aside = append(data.Aside, sd)
		} else {
			data.Main = append(data.Main, sd)
		}
		rendered = append(rendered, section.Key)
	}

	var body bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&body, string(s.Layout), data); err != nil {
		return nil, &TemplateError{Message: "failed to execute template " + s.ID, Cause: err}
	}

	title := plan.Header.FullName
	if title == "" {
		title = "CV"
	}

	return &VisualDocument{
		Template:   s.ID,
		Title:      title,
		InlineEdit: s.InlineEdit,
		Design:     settings,
		Style:      designVariables(accentColor, settings) + s.css,
		Body:       body.String(),
		Sections:   rendered,
	}, nil
}

// designVariables renders the CSS custom properties every stylesheet reads.
func designVariables(accent string, d types.DesignSettings) string {
	return fmt.Sprintf(":root {\n  --cv-accent: %s;\n  --cv-font-family: %s;\n  --cv-font-size: %dpx;\n  --cv-margin-top: %dpx;\n  --cv-section-gap: %dpx;\n  --cv-page-width: %dpx;\n}\n",
		accent, cssFontFamily(d.FontFamily), d.FontSize, d.MarginTop, d.SectionGap, A4WidthPx)
}

// cssFontFamily quotes a family name and appends a generic fallback.
func cssFontFamily(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', ';', '{', '}', '<', '>', '\\':
			return -1
		}
		return r
	}, name)
	return fmt.Sprintf("%q, sans-serif", strings.TrimSpace(cleaned))
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// newSkin parses the shared layouts and loads the skin stylesheet.
func newSkin(id string, layout Layout, empty EmptyPolicy, inlineEdit bool, headerStyle string) (*Skin, error) {
	tmpl, err := template.New(id).Funcs(funcs).ParseFS(templateFiles, "templates/*.gohtml")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}

	base, err := templateFiles.ReadFile("templates/css/base.css")
	if err != nil {
		return nil, &TemplateError{Message: "missing base stylesheet", Cause: err}
	}
	skinCSS, err := templateFiles.ReadFile("templates/css/" + id + ".css")
	if err != nil {
		return nil, &TemplateError{Message: fmt.Sprintf("missing stylesheet for %s", id), Cause: err}
	}

	return &Skin{
		ID:          id,
		Layout:      layout,
		Empty:       empty,
		InlineEdit:  inlineEdit,
		HeaderStyle: headerStyle,
		tmpl:        tmpl,
		css:         string(base) + string(skinCSS),
	}, nil
}

// Registry holds the available skins keyed by id.
type Registry struct {
	skins map[string]*Skin
}

// Get returns the skin with the given id.
func (r *Registry) Get(id string) (*Skin, bool) {
	s, ok := r.skins[id]
	return s, ok
}

// Exists reports whether id names a skin.
func (r *Registry) Exists(id string) bool {
	_, ok := r.skins[id]
	return ok
}

// Names returns the skin ids in a stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.skins))
	for name := range r.skins {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return skinRank(names[i]) < skinRank(names[j])
	})
	return names
}

// Renderer returns the skin for id bound to the labels of lang.
func (r *Registry) Renderer(id, lang string) (Renderer, error) {
	skin, ok := r.skins[id]
	if !ok {
		return nil, &RenderError{Message: fmt.Sprintf("unknown template %q", id)}
	}
	labels, err := i18n.Get(lang)
	if err != nil {
		return nil, &RenderError{Message: "unsupported language", Cause: err}
	}
	return skin.WithLabels(labels), nil
}
