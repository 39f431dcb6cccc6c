//nolint:revive // types is a standard Go package name pattern
package types

// ProfessionalLevel is the seniority shown next to the role.
type ProfessionalLevel string

// Professional levels; the empty level is allowed.
const (
	LevelNone       ProfessionalLevel = ""
	LevelJunior     ProfessionalLevel = "Junior"
	LevelSemiSenior ProfessionalLevel = "Semi-Senior"
	LevelSenior     ProfessionalLevel = "Senior"
	LevelTechLead   ProfessionalLevel = "Tech Lead"
	LevelArchitect  ProfessionalLevel = "Architect"
	LevelManager    ProfessionalLevel = "Manager"
)

// DocumentType is the kind of identity document printed in the header.
type DocumentType string

// Identity document kinds.
const (
	DocumentNone       DocumentType = "none"
	DocumentNationalID DocumentType = "national-id"
	DocumentTaxID      DocumentType = "tax-id"
	DocumentPassport   DocumentType = "passport"
	DocumentForeignID  DocumentType = "foreign-id"
)

// PersonalInfo is the header block of a CV.
// ShowPhoto may be true while Photo is nil.
type PersonalInfo struct {
	Name              string            `json:"name"`
	LastName          string            `json:"lastName"`
	Role              string            `json:"role"`
	ProfessionalLevel ProfessionalLevel `json:"professionalLevel" validate:"omitempty,oneof=Junior Semi-Senior Senior 'Tech Lead' Architect Manager"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Location          string            `json:"location"`
	LinkedIn          string            `json:"linkedin"`
	GitHub            string            `json:"github"`
	Website           string            `json:"website"`
	Summary           string            `json:"summary"`
	Photo             *string           `json:"photo"`
	ShowPhoto         bool              `json:"showPhoto"`
	DocumentType      DocumentType      `json:"documentType" validate:"omitempty,oneof=none national-id tax-id passport foreign-id"`
	DocumentNumber    string            `json:"documentNumber"`
	ExpeditionPlace   string            `json:"expeditionPlace"`
}

// Clone deep-copies the photo pointer.
func (p PersonalInfo) Clone() PersonalInfo {
	out := p
	if p.Photo != nil {
		photo := *p.Photo
		out.Photo = &photo
	}
	return out
}

// FullName joins name and last name.
func (p PersonalInfo) FullName() string {
	switch {
	case p.Name == "":
		return p.LastName
	case p.LastName == "":
		return p.Name
	default:
		return p.Name + " " + p.LastName
	}
}

// HasPhoto reports whether a photo should be drawn.
func (p PersonalInfo) HasPhoto() bool {
	return p.ShowPhoto && p.Photo != nil && *p.Photo != ""
}
