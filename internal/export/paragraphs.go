package export

import (
	"strings"

	"github.com/jonathan/cv-builder/internal/daterange"
	"github.com/jonathan/cv-builder/internal/i18n"
	"github.com/jonathan/cv-builder/internal/types"
)

// Style is the role of a paragraph in the exported document.
type Style string

// Paragraph styles.
const (
	StyleTitle    Style = "Title"
	StyleSubtitle Style = "Subtitle"
	StyleContact  Style = "Contact"
	StyleHeading  Style = "Heading1"
	StyleEntry    Style = "EntryTitle"
	StyleBody     Style = "Normal"
	StyleBullet   Style = "ListBullet"
	StyleMeta     Style = "Meta"
)

// Run is a span of text with uniform formatting.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is one block of the word-processor document.
type Paragraph struct {
	Style Style
	Runs  []Run
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func para(style Style, text string) Paragraph {
	return Paragraph{Style: style, Runs: []Run{{Text: text}}}
}

// paragraphBuilder accumulates paragraphs while walking the document.
type paragraphBuilder struct {
	out    []Paragraph
	labels *i18n.Labels
}

func (b *paragraphBuilder) add(p ...Paragraph) {
	b.out = append(b.out, p...)
}

func (b *paragraphBuilder) heading(section types.Section) {
	b.add(para(StyleHeading, b.labels.Section(section)))
}

// entry emits a bold title, an optional subtitle and an italic period on one line.
func (b *paragraphBuilder) entry(title, subtitle string, period daterange.Range) {
	p := Paragraph{Style: StyleEntry}
	if title = strings.TrimSpace(title); title != "" {
		p.Runs = append(p.Runs, Run{Text: title, Bold: true})
	}
	if subtitle = strings.TrimSpace(subtitle); subtitle != "" {
		if len(p.Runs) > 0 {
			p.Runs = append(p.Runs, Run{Text: " | "})
		}
		p.Runs = append(p.Runs, Run{Text: subtitle})
	}
	if text := daterange.Format(period, b.labels.Present); text != "" {
		if len(p.Runs) > 0 {
			p.Runs = append(p.Runs, Run{Text: " ("})
			p.Runs = append(p.Runs, Run{Text: text, Italic: true})
			p.Runs = append(p.Runs, Run{Text: ")"})
		} else {
			p.Runs = append(p.Runs, Run{Text: text, Italic: true})
		}
	}
	if len(p.Runs) > 0 {
		b.add(p)
	}
}

// body emits one paragraph per non-empty line of free text.
func (b *paragraphBuilder) body(text string) {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			b.add(para(StyleBody, line))
		}
	}
}

// BuildParagraphs walks the document in a fixed order (header, summary, experience,
// education, hard skills, soft skills, projects, languages, certifications, references),
// emitting only populated sections.
func BuildParagraphs(doc types.CVDocument, labels *i18n.Labels) []Paragraph {
	b := &paragraphBuilder{labels: labels}
	p := doc.Personal

	if name := p.FullName(); name != "" {
		b.add(para(StyleTitle, name))
	}
	if role := joinNonEmpty(" | ", p.Role, string(p.ProfessionalLevel)); role != "" {
		b.add(para(StyleSubtitle, role))
	}
	if contact := joinNonEmpty(" | ", p.Email, p.Phone, p.Location, p.LinkedIn, p.GitHub, p.Website); contact != "" {
		b.add(para(StyleContact, contact))
	}
	if kind := labels.DocumentType(p.DocumentType); kind != "" && strings.TrimSpace(p.DocumentNumber) != "" {
		line := kind + ": " + strings.TrimSpace(p.DocumentNumber)
		if place := strings.TrimSpace(p.ExpeditionPlace); place != "" {
			line += " (" + labels.ExpeditionPlace + " " + place + ")"
		}
		b.add(para(StyleContact, line))
	}

	if doc.HasData(types.SectionSummary) {
		b.heading(types.SectionSummary)
		b.body(p.Summary)
	}

	if len(doc.Experience) > 0 {
		b.heading(types.SectionExperience)
		for _, e := range doc.Experience {
			b.entry(e.Role, e.Company, e.Duration)
			b.body(e.Description)
		}
	}

	if len(doc.Education) > 0 {
		b.heading(types.SectionEducation)
		for _, e := range doc.Education {
			b.entry(e.Degree, e.School, e.Year)
			b.body(e.Description)
		}
	}

	if len(doc.HardSkills) > 0 {
		b.heading(types.SectionHardSkills)
		for _, h := range doc.HardSkills {
			items := strings.Join(types.SplitList(h.Items), ", ")
			pp := Paragraph{Style: StyleBullet}
			if category := strings.TrimSpace(h.Category); category != "" {
				pp.Runs = append(pp.Runs, Run{Text: category + ": ", Bold: true})
			}
			pp.Runs = append(pp.Runs, Run{Text: items})
			b.add(pp)
		}
	}

	if softSkills := nonEmpty(doc.SoftSkills); len(softSkills) > 0 {
		b.heading(types.SectionSoftSkills)
		b.add(para(StyleBody, strings.Join(softSkills, ", ")))
	}

	if skills := nonEmpty(doc.Skills); len(skills) > 0 {
		b.heading(types.SectionSkills)
		b.add(para(StyleBody, strings.Join(skills, ", ")))
	}

	if len(doc.Projects) > 0 {
		b.heading(types.SectionProjects)
		for _, pr := range doc.Projects {
			b.entry(pr.Name, "", daterange.Range{})
			b.body(pr.Description)
			if tech := types.SplitList(pr.Technologies); len(tech) > 0 {
				b.add(Paragraph{Style: StyleMeta, Runs: []Run{
					{Text: labels.Technologies + ": ", Bold: true},
					{Text: strings.Join(tech, ", ")},
				}})
			}
			if link := strings.TrimSpace(pr.Link); link != "" {
				b.add(Paragraph{Style: StyleMeta, Runs: []Run{
					{Text: labels.Link + ": ", Bold: true},
					{Text: link},
				}})
			}
		}
	}

	if len(doc.Languages) > 0 {
		b.heading(types.SectionLanguages)
		for _, l := range doc.Languages {
			if text := joinNonEmpty(": ", l.Language, l.Level); text != "" {
				b.add(para(StyleBullet, text))
			}
		}
	}

	if len(doc.Certifications) > 0 {
		b.heading(types.SectionCertifications)
		for _, c := range doc.Certifications {
			b.entry(c.Name, c.Issuer, c.Date)
		}
	}

	switch {
	case doc.ReferencesAvailableOnRequest:
		b.heading(types.SectionReferences)
		b.add(Paragraph{Style: StyleBody, Runs: []Run{{Text: labels.ReferencesOnRequest, Italic: true}}})
	case len(doc.References) > 0:
		b.heading(types.SectionReferences)
		for _, r := range doc.References {
			b.entry(r.Name, joinNonEmpty(", ", r.Role, r.Company, r.Profession), daterange.Range{})
			if contact := joinNonEmpty(" | ", r.Phone, r.Email); contact != "" {
				b.add(para(StyleMeta, contact))
			}
		}
	}

	return b.out
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
