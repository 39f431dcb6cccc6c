package rendering

import (
	"strings"

	"github.com/jonathan/cv-builder/internal/daterange"
	"github.com/jonathan/cv-builder/internal/i18n"
	"github.com/jonathan/cv-builder/internal/types"
)

// SectionOrder is the display order shared by every skin.
var SectionOrder = []types.Section{
	types.SectionSummary,
	types.SectionExperience,
	types.SectionEducation,
	types.SectionHardSkills,
	types.SectionSoftSkills,
	types.SectionSkills,
	types.SectionProjects,
	types.SectionLanguages,
	types.SectionCertifications,
	types.SectionReferences,
}

// Plan is the skin-independent projection of a document: every "is this populated"
// decision and every date formatting happens here, once.
type Plan struct {
	Header   Header
	Sections []SectionView
}

// Header is the identity block at the top of every skin.
type Header struct {
	Name     string
	LastName string
	FullName string
	Role     string
	Level    string
	Photo    string
	HasPhoto bool
	Document string
	Contacts []Contact
}

// Contact is one contact line. Field is the data-field name used for inline editing.
type Contact struct {
	Field string
	Label string
	Value string
	Href  string
}

// SectionView is one section ready for layout.
type SectionView struct {
	Key       types.Section
	Title     string
	Populated bool
	Text      string
	Notice    string
	Entries   []Entry
	Tags      []string
	Groups    []TagGroup
}

// Entry is one item of a repeated section.
type Entry struct {
	Title       string
	Subtitle    string
	Period      string
	Description string
	Link        string
	Tags        []string
	Details     []string
}

// TagGroup is a labelled list of tags (hard-skill categories).
type TagGroup struct {
	Label string
	Tags  []string
}

// BuildPlan projects doc with the given labels. It never fails: empty or missing fields
// produce unpopulated sections.
func BuildPlan(doc types.CVDocument, labels *i18n.Labels) Plan {
	p := doc.Personal
	plan := Plan{
		Header: Header{
			Name:     p.Name,
			LastName: p.LastName,
			FullName: p.FullName(),
			Role:     p.Role,
			Level:    string(p.ProfessionalLevel),
			HasPhoto: p.HasPhoto(),
			Document: identityLine(p, labels),
			Contacts: contacts(p, labels),
		},
	}
	if plan.Header.HasPhoto {
		plan.Header.Photo = *p.Photo
	}

	for _, key := range SectionOrder {
		plan.Sections = append(plan.Sections, buildSection(key, doc, labels))
	}
	return plan
}

// Section returns the view for key.
func (p Plan) Section(key types.Section) (SectionView, bool) {
	for _, s := range p.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionView{}, false
}

// Populated returns the populated sections in order.
func (p Plan) Populated() []SectionView {
	var out []SectionView
	for _, s := range p.Sections {
		if s.Populated {
			out = append(out, s)
		}
	}
	return out
}

func buildSection(key types.Section, doc types.CVDocument, labels *i18n.Labels) SectionView {
	view := SectionView{
		Key:       key,
		Title:     labels.Section(key),
		Populated: doc.HasData(key),
	}

	switch key {
	case types.SectionSummary:
		view.Text = strings.TrimSpace(doc.Personal.Summary)
	case types.SectionExperience:
		for _, e := range doc.Experience {
			view.Entries = append(view.Entries, Entry{
				Title:       e.Role,
				Subtitle:    e.Company,
				Period:      daterange.Format(e.Duration, labels.Present),
				Description: e.Description,
			})
		}
	case types.SectionEducation:
		for _, e := range doc.Education {
			view.Entries = append(view.Entries, Entry{
				Title:       e.Degree,
				Subtitle:    e.School,
				Period:      daterange.Format(e.Year, labels.Present),
				Description: e.Description,
			})
		}
	case types.SectionHardSkills:
		for _, h := range doc.HardSkills {
			view.Groups = append(view.Groups, TagGroup{Label: h.Category, Tags: types.SplitList(h.Items)})
		}
	case types.SectionSoftSkills:
		view.Tags = nonEmpty(doc.SoftSkills)
	case types.SectionSkills:
		view.Tags = nonEmpty(doc.Skills)
	case types.SectionProjects:
		for _, pr := range doc.Projects {
			view.Entries = append(view.Entries, Entry{
				Title:       pr.Name,
				Description: pr.Description,
				Link:        pr.Link,
				Tags:        types.SplitList(pr.Technologies),
			})
		}
	case types.SectionLanguages:
		for _, l := range doc.Languages {
			view.Entries = append(view.Entries, Entry{Title: l.Language, Subtitle: l.Level})
		}
	case types.SectionCertifications:
		for _, c := range doc.Certifications {
			view.Entries = append(view.Entries, Entry{
				Title:    c.Name,
				Subtitle: c.Issuer,
				Period:   daterange.Format(c.Date, labels.Present),
			})
		}
	case types.SectionReferences:
		if doc.ReferencesAvailableOnRequest {
			view.Populated = true
			view.Notice = labels.ReferencesOnRequest
			break
		}
		for _, r := range doc.References {
			view.Entries = append(view.Entries, Entry{
				Title:    r.Name,
				Subtitle: joinNonEmpty(" · ", r.Role, r.Company, r.Profession),
				Details:  nonEmpty([]string{r.Phone, r.Email}),
			})
		}
	}
	return view
}

func contacts(p types.PersonalInfo, labels *i18n.Labels) []Contact {
	fields := []struct {
		field string
		value string
		href  string
	}{
		{"email", p.Email, mailto(p.Email)},
		{"phone", p.Phone, ""},
		{"location", p.Location, ""},
		{"linkedin", p.LinkedIn, webLink(p.LinkedIn)},
		{"github", p.GitHub, webLink(p.GitHub)},
		{"website", p.Website, webLink(p.Website)},
	}

	var out []Contact
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		out = append(out, Contact{
			Field: f.field,
			Label: labels.ContactLabel(f.field),
			Value: f.value,
			Href:  f.href,
		})
	}
	return out
}

func identityLine(p types.PersonalInfo, labels *i18n.Labels) string {
	kind := labels.DocumentType(p.DocumentType)
	if kind == "" || strings.TrimSpace(p.DocumentNumber) == "" {
		return ""
	}
	line := kind + ": " + p.DocumentNumber
	if place := strings.TrimSpace(p.ExpeditionPlace); place != "" {
		line += " (" + labels.ExpeditionPlace + " " + place + ")"
	}
	return line
}

func mailto(email string) string {
	if strings.TrimSpace(email) == "" {
		return ""
	}
	return "mailto:" + strings.TrimSpace(email)
}

func webLink(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	return "https://" + v
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}
