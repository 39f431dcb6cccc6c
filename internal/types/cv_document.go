// Package types provides type definitions for structured data used throughout the cv-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/jonathan/cv-builder/internal/daterange"
)

// SuggestedMaxExperience is the number of experience entries the editor suggests.
// The store does not enforce it.
const SuggestedMaxExperience = 5

// Section names a top-level part of a CV document.
type Section string

// Known sections, using the JSON keys of CVDocument.
const (
	SectionPersonal       Section = "personal"
	SectionSummary        Section = "summary"
	SectionSkills         Section = "skills"
	SectionHardSkills     Section = "hardSkills"
	SectionSoftSkills     Section = "softSkills"
	SectionExperience     Section = "experience"
	SectionProjects       Section = "projects"
	SectionEducation      Section = "education"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
	SectionReferences     Section = "references"
)

// ListSections are the repeated sections, in document order.
var ListSections = []Section{
	SectionSkills,
	SectionHardSkills,
	SectionSoftSkills,
	SectionExperience,
	SectionProjects,
	SectionEducation,
	SectionCertifications,
	SectionLanguages,
	SectionReferences,
}

// ParseSection maps a section name to a repeated section.
func ParseSection(name string) (Section, bool) {
	for _, s := range ListSections {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// CVDocument is the aggregate root of one résumé.
type CVDocument struct {
	Personal                     PersonalInfo        `json:"personal"`
	Skills                       []string            `json:"skills"`
	HardSkills                   []HardSkillCategory `json:"hardSkills"`
	SoftSkills                   []string            `json:"softSkills"`
	Experience                   []Experience        `json:"experience"`
	Projects                     []Project           `json:"projects"`
	Education                    []Education         `json:"education"`
	Certifications               []Certification     `json:"certifications"`
	Languages                    []LanguageEntry     `json:"languages"`
	References                   []Reference         `json:"references"`
	ReferencesAvailableOnRequest bool                `json:"referencesAvailableOnRequest"`
}

// Experience is one job entry.
type Experience struct {
	Role        string          `json:"role"`
	Company     string          `json:"company"`
	Duration    daterange.Range `json:"duration"`
	Description string          `json:"description"`
}

// Education is one degree or course.
type Education struct {
	Degree      string          `json:"degree"`
	School      string          `json:"school"`
	Year        daterange.Range `json:"year"`
	Description string          `json:"description"`
}

// Project is a portfolio entry. Technologies is comma-separated free text.
type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
}

// Certification is a credential with its issue date.
type Certification struct {
	Name   string          `json:"name"`
	Issuer string          `json:"issuer"`
	Date   daterange.Range `json:"date"`
}

// LanguageEntry is a spoken language and its proficiency.
type LanguageEntry struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// Reference is a professional contact.
type Reference struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Profession string `json:"profession,omitempty"`
}

// HardSkillCategory groups comma-separated skills under a label.
type HardSkillCategory struct {
	Category string `json:"category"`
	Items    string `json:"items"`
}

// NewDocument returns the zero-value document: empty lists, empty personal info.
func NewDocument() CVDocument {
	return CVDocument{
		Skills:         []string{},
		HardSkills:     []HardSkillCategory{},
		SoftSkills:     []string{},
		Experience:     []Experience{},
		Projects:       []Project{},
		Education:      []Education{},
		Certifications: []Certification{},
		Languages:      []LanguageEntry{},
		References:     []Reference{},
	}
}

// Clone returns a deep copy that shares no memory with d.
func (d CVDocument) Clone() CVDocument {
	out := d
	out.Personal = d.Personal.Clone()
	out.Skills = cloneSlice(d.Skills)
	out.HardSkills = cloneSlice(d.HardSkills)
	out.SoftSkills = cloneSlice(d.SoftSkills)
	out.Experience = cloneSlice(d.Experience)
	out.Projects = cloneSlice(d.Projects)
	out.Education = cloneSlice(d.Education)
	out.Certifications = cloneSlice(d.Certifications)
	out.Languages = cloneSlice(d.Languages)
	out.References = cloneSlice(d.References)
	return out
}

// Normalize replaces nil lists with empty ones so that a decoded document compares equal
// to one built with NewDocument.
func (d *CVDocument) Normalize() {
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.HardSkills == nil {
		d.HardSkills = []HardSkillCategory{}
	}
	if d.SoftSkills == nil {
		d.SoftSkills = []string{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	if d.Languages == nil {
		d.Languages = []LanguageEntry{}
	}
	if d.References == nil {
		d.References = []Reference{}
	}
}

// HasData reports whether a section holds anything to show.
func (d CVDocument) HasData(section Section) bool {
	switch section {
	case SectionSummary:
		return strings.TrimSpace(d.Personal.Summary) != ""
	case SectionSkills:
		return len(d.Skills) > 0
	case SectionHardSkills:
		return len(d.HardSkills) > 0
	case SectionSoftSkills:
		return len(d.SoftSkills) > 0
	case SectionExperience:
		return len(d.Experience) > 0
	case SectionProjects:
		return len(d.Projects) > 0
	case SectionEducation:
		return len(d.Education) > 0
	case SectionCertifications:
		return len(d.Certifications) > 0
	case SectionLanguages:
		return len(d.Languages) > 0
	case SectionReferences:
		return len(d.References) > 0
	default:
		return false
	}
}

// Len returns the length of a repeated section, or -1 for unknown sections.
func (d CVDocument) Len(section Section) int {
	switch section {
	case SectionSkills:
		return len(d.Skills)
	case SectionHardSkills:
		return len(d.HardSkills)
	case SectionSoftSkills:
		return len(d.SoftSkills)
	case SectionExperience:
		return len(d.Experience)
	case SectionProjects:
		return len(d.Projects)
	case SectionEducation:
		return len(d.Education)
	case SectionCertifications:
		return len(d.Certifications)
	case SectionLanguages:
		return len(d.Languages)
	case SectionReferences:
		return len(d.References)
	default:
		return -1
	}
}

// SplitList splits comma-separated free text into trimmed, non-empty items.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
