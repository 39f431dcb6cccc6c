package store

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/cv-builder/internal/types"
)

// Out-of-range Remove and Update calls are no-ops that report false. They never panic and
// never touch the list.

func addItem[T any](s *Store, list func(*types.CVDocument) *[]T, item T) {
	s.mutateDocument(func(doc *types.CVDocument) {
		l := list(doc)
		*l = append(*l, item)
	})
}

func removeItem[T any](s *Store, list func(*types.CVDocument) *[]T, i int) bool {
	s.mu.Lock()
	l := list(&s.doc)
	if i < 0 || i >= len(*l) {
		s.mu.Unlock()
		return false
	}
	next := make([]T, 0, len(*l)-1)
	next = append(next, (*l)[:i]...)
	next = append(next, (*l)[i+1:]...)
	*l = next
	s.afterDocumentChangeLocked()
	s.mu.Unlock()

	s.notifySubscribers()
	return true
}

func updateItem[T any](s *Store, list func(*types.CVDocument) *[]T, i int, item T) bool {
	s.mu.Lock()
	l := list(&s.doc)
	if i < 0 || i >= len(*l) {
		s.mu.Unlock()
		return false
	}
	(*l)[i] = item
	s.afterDocumentChangeLocked()
	s.mu.Unlock()

	s.notifySubscribers()
	return true
}

func experienceList(d *types.CVDocument) *[]types.Experience { return &d.Experience }
func educationList(d *types.CVDocument) *[]types.Education { return &d.Education }
func projectList(d *types.CVDocument) *[]types.Project { return &d.Projects }
func certificationList(d *types.CVDocument) *[]types.Certification { return &d.Certifications }
func languageList(d *types.CVDocument) *[]types.LanguageEntry { return &d.Languages }
func referenceList(d *types.CVDocument) *[]types.Reference { return &d.References }
func hardSkillList(d *types.CVDocument) *[]types.HardSkillCategory { return &d.HardSkills }
func skillList(d *types.CVDocument) *[]string { return &d.Skills }
func softSkillList(d *types.CVDocument) *[]string { return &d.SoftSkills }

// AddExperience appends an experience entry. The suggested limit is not enforced.
func (s *Store) AddExperience(e types.Experience) { addItem(s, experienceList, e) }

// RemoveExperience removes entry i.
func (s *Store) RemoveExperience(i int) bool { return removeItem(s, experienceList, i) }

// UpdateExperience replaces entry i.
func (s *Store) UpdateExperience(i int, e types.Experience) bool {
	return updateItem(s, experienceList, i, e)
}

// AddEducation appends an education entry.
func (s *Store) AddEducation(e types.Education) { addItem(s, educationList, e) }

// RemoveEducation removes entry i.
func (s *Store) RemoveEducation(i int) bool { return removeItem(s, educationList, i) }

// UpdateEducation replaces entry i.
func (s *Store) UpdateEducation(i int, e types.Education) bool {
	return updateItem(s, educationList, i, e)
}

// AddProject appends a project.
func (s *Store) AddProject(p types.Project) { addItem(s, projectList, p) }

// RemoveProject removes project i.
func (s *Store) RemoveProject(i int) bool { return removeItem(s, projectList, i) }

// UpdateProject replaces project i.
func (s *Store) UpdateProject(i int, p types.Project) bool {
	return updateItem(s, projectList, i, p)
}

// AddCertification appends a certification.
func (s *Store) AddCertification(c types.Certification) { addItem(s, certificationList, c) }

// RemoveCertification removes certification i.
func (s *Store) RemoveCertification(i int) bool { return removeItem(s, certificationList, i) }

// UpdateCertification replaces certification i.
func (s *Store) UpdateCertification(i int, c types.Certification) bool {
	return updateItem(s, certificationList, i, c)
}

// AddLanguage appends a language entry.
func (s *Store) AddLanguage(l types.LanguageEntry) { addItem(s, languageList, l) }

// RemoveLanguage removes language i.
func (s *Store) RemoveLanguage(i int) bool { return removeItem(s, languageList, i) }

// UpdateLanguage replaces language i.
func (s *Store) UpdateLanguage(i int, l types.LanguageEntry) bool {
	return updateItem(s, languageList, i, l)
}

// AddReference appends a reference.
func (s *Store) AddReference(r types.Reference) { addItem(s, referenceList, r) }

// RemoveReference removes reference i.
func (s *Store) RemoveReference(i int) bool { return removeItem(s, referenceList, i) }

// UpdateReference replaces reference i.
func (s *Store) UpdateReference(i int, r types.Reference) bool {
	return updateItem(s, referenceList, i, r)
}

// AddHardSkill appends a hard-skill category.
func (s *Store) AddHardSkill(h types.HardSkillCategory) { addItem(s, hardSkillList, h) }

// RemoveHardSkill removes category i.
func (s *Store) RemoveHardSkill(i int) bool { return removeItem(s, hardSkillList, i) }

// UpdateHardSkill replaces category i.
func (s *Store) UpdateHardSkill(i int, h types.HardSkillCategory) bool {
	return updateItem(s, hardSkillList, i, h)
}

// AddSkill appends to the legacy flat skill list.
func (s *Store) AddSkill(skill string) { addItem(s, skillList, skill) }

// RemoveSkill removes skill i.
func (s *Store) RemoveSkill(i int) bool { return removeItem(s, skillList, i) }

// UpdateSkill replaces skill i.
func (s *Store) UpdateSkill(i int, skill string) bool {
	return updateItem(s, skillList, i, skill)
}

// AddSoftSkill appends a soft skill.
func (s *Store) AddSoftSkill(skill string) { addItem(s, softSkillList, skill) }

// RemoveSoftSkill removes soft skill i.
func (s *Store) RemoveSoftSkill(i int) bool { return removeItem(s, softSkillList, i) }

// UpdateSoftSkill replaces soft skill i.
func (s *Store) UpdateSoftSkill(i int, skill string) bool {
	return updateItem(s, softSkillList, i, skill)
}

// AddJSON decodes one item of section from JSON and appends it.
func (s *Store) AddJSON(section types.Section, data []byte) error {
	switch section {
	case types.SectionExperience:
		return decodeThen(data, s.AddExperience)
	case types.SectionEducation:
		return decodeThen(data, s.AddEducation)
	case types.SectionProjects:
		return decodeThen(data, s.AddProject)
	case types.SectionCertifications:
		return decodeThen(data, s.AddCertification)
	case types.SectionLanguages:
		return decodeThen(data, s.AddLanguage)
	case types.SectionReferences:
		return decodeThen(data, s.AddReference)
	case types.SectionHardSkills:
		return decodeThen(data, s.AddHardSkill)
	case types.SectionSkills:
		return decodeThen(data, s.AddSkill)
	case types.SectionSoftSkills:
		return decodeThen(data, s.AddSoftSkill)
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown section %q", section)}
	}
}

// UpdateJSON decodes one item of section from JSON and stores it at index i.
func (s *Store) UpdateJSON(section types.Section, i int, data []byte) (bool, error) {
	switch section {
	case types.SectionExperience:
		return decodeAt(data, i, s.UpdateExperience)
	case types.SectionEducation:
		return decodeAt(data, i, s.UpdateEducation)
	case types.SectionProjects:
		return decodeAt(data, i, s.UpdateProject)
	case types.SectionCertifications:
		return decodeAt(data, i, s.UpdateCertification)
	case types.SectionLanguages:
		return decodeAt(data, i, s.UpdateLanguage)
	case types.SectionReferences:
		return decodeAt(data, i, s.UpdateReference)
	case types.SectionHardSkills:
		return decodeAt(data, i, s.UpdateHardSkill)
	case types.SectionSkills:
		return decodeAt(data, i, s.UpdateSkill)
	case types.SectionSoftSkills:
		return decodeAt(data, i, s.UpdateSoftSkill)
	default:
		return false, &ValidationError{Message: fmt.Sprintf("unknown section %q", section)}
	}
}

// Remove deletes index i of section.
func (s *Store) Remove(section types.Section, i int) (bool, error) {
	switch section {
	case types.SectionExperience:
		return s.RemoveExperience(i), nil
	case types.SectionEducation:
		return s.RemoveEducation(i), nil
	case types.SectionProjects:
		return s.RemoveProject(i), nil
	case types.SectionCertifications:
		return s.RemoveCertification(i), nil
	case types.SectionLanguages:
		return s.RemoveLanguage(i), nil
	case types.SectionReferences:
		return s.RemoveReference(i), nil
	case types.SectionHardSkills:
		return s.RemoveHardSkill(i), nil
	case types.SectionSkills:
		return s.RemoveSkill(i), nil
	case types.SectionSoftSkills:
		return s.RemoveSoftSkill(i), nil
	default:
		return false, &ValidationError{Message: fmt.Sprintf("unknown section %q", section)}
	}
}

func decodeThen[T any](data []byte, apply func(T)) error {
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return &ValidationError{Message: "malformed item", Cause: err}
	}
	apply(item)
	return nil
}

func decodeAt[T any](data []byte, i int, apply func(int, T) bool) (bool, error) {
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return false, &ValidationError{Message: "malformed item", Cause: err}
	}
	return apply(i, item), nil
}
