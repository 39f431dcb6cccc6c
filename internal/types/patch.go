//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// DocumentPatch carries a subset of top-level document keys. A non-nil field replaces the
// corresponding value wholesale; nil fields are left untouched.
type DocumentPatch struct {
	Personal                     *PersonalInfo        `json:"personal,omitempty"`
	Skills                       *[]string            `json:"skills,omitempty"`
	HardSkills                   *[]HardSkillCategory `json:"hardSkills,omitempty"`
	SoftSkills                   *[]string            `json:"softSkills,omitempty"`
	Experience                   *[]Experience        `json:"experience,omitempty"`
	Projects                     *[]Project           `json:"projects,omitempty"`
	Education                    *[]Education         `json:"education,omitempty"`
	Certifications               *[]Certification     `json:"certifications,omitempty"`
	Languages                    *[]LanguageEntry     `json:"languages,omitempty"`
	References                   *[]Reference         `json:"references,omitempty"`
	ReferencesAvailableOnRequest *bool                `json:"referencesAvailableOnRequest,omitempty"`
}

// PatchFrom builds a patch that sets every key of d.
func PatchFrom(d CVDocument) DocumentPatch {
	d = d.Clone()
	d.Normalize()
	return DocumentPatch{
		Personal:                     &d.Personal,
		Skills:                       &d.Skills,
		HardSkills:                   &d.HardSkills,
		SoftSkills:                   &d.SoftSkills,
		Experience:                   &d.Experience,
		Projects:                     &d.Projects,
		Education:                    &d.Education,
		Certifications:               &d.Certifications,
		Languages:                    &d.Languages,
		References:                   &d.References,
		ReferencesAvailableOnRequest: &d.ReferencesAvailableOnRequest,
	}
}

// Apply merges the patch into d at the top level. Lists are copied, never concatenated.
func (p DocumentPatch) Apply(d *CVDocument) {
	if p.Personal != nil {
		d.Personal = p.Personal.Clone()
	}
	if p.Skills != nil {
		d.Skills = nonNil(cloneSlice(*p.Skills))
	}
	if p.HardSkills != nil {
		d.HardSkills = nonNil(cloneSlice(*p.HardSkills))
	}
	if p.SoftSkills != nil {
		d.SoftSkills = nonNil(cloneSlice(*p.SoftSkills))
	}
	if p.Experience != nil {
		d.Experience = nonNil(cloneSlice(*p.Experience))
	}
	if p.Projects != nil {
		d.Projects = nonNil(cloneSlice(*p.Projects))
	}
	if p.Education != nil {
		d.Education = nonNil(cloneSlice(*p.Education))
	}
	if p.Certifications != nil {
		d.Certifications = nonNil(cloneSlice(*p.Certifications))
	}
	if p.Languages != nil {
		d.Languages = nonNil(cloneSlice(*p.Languages))
	}
	if p.References != nil {
		d.References = nonNil(cloneSlice(*p.References))
	}
	if p.ReferencesAvailableOnRequest != nil {
		d.ReferencesAvailableOnRequest = *p.ReferencesAvailableOnRequest
	}
}

// PersonalPatch carries a subset of PersonalInfo fields for a shallow merge.
// Photo is applied only when SetPhoto is true; a nil Photo then clears the image.
type PersonalPatch struct {
	Name              *string            `json:"name,omitempty"`
	LastName          *string            `json:"lastName,omitempty"`
	Role              *string            `json:"role,omitempty"`
	ProfessionalLevel *ProfessionalLevel `json:"professionalLevel,omitempty"`
	Email             *string            `json:"email,omitempty"`
	Phone             *string            `json:"phone,omitempty"`
	Location          *string            `json:"location,omitempty"`
	LinkedIn          *string            `json:"linkedin,omitempty"`
	GitHub            *string            `json:"github,omitempty"`
	Website           *string            `json:"website,omitempty"`
	Summary           *string            `json:"summary,omitempty"`
	ShowPhoto         *bool              `json:"showPhoto,omitempty"`
	DocumentType      *DocumentType      `json:"documentType,omitempty"`
	DocumentNumber    *string            `json:"documentNumber,omitempty"`
	ExpeditionPlace   *string            `json:"expeditionPlace,omitempty"`
	Photo             *string            `json:"photo,omitempty"`
	SetPhoto          bool               `json:"setPhoto,omitempty"`
}

// Apply merges the patch into p.
func (pp PersonalPatch) Apply(p *PersonalInfo) {
	setString(&p.Name, pp.Name)
	setString(&p.LastName, pp.LastName)
	setString(&p.Role, pp.Role)
	if pp.ProfessionalLevel != nil {
		p.ProfessionalLevel = *pp.ProfessionalLevel
	}
	setString(&p.Email, pp.Email)
	setString(&p.Phone, pp.Phone)
	setString(&p.Location, pp.Location)
	setString(&p.LinkedIn, pp.LinkedIn)
	setString(&p.GitHub, pp.GitHub)
	setString(&p.Website, pp.Website)
	setString(&p.Summary, pp.Summary)
	if pp.ShowPhoto != nil {
		p.ShowPhoto = *pp.ShowPhoto
	}
	if pp.DocumentType != nil {
		p.DocumentType = *pp.DocumentType
	}
	setString(&p.DocumentNumber, pp.DocumentNumber)
	setString(&p.ExpeditionPlace, pp.ExpeditionPlace)
	if pp.SetPhoto {
		if pp.Photo == nil {
			p.Photo = nil
		} else {
			photo := *pp.Photo
			p.Photo = &photo
		}
	}
}

// InlineFields are the PersonalInfo text fields that may be edited in place, keyed by the
// JSON name used in data-field attributes.
var InlineFields = []string{
	"name", "lastName", "role", "email", "phone", "location",
	"linkedin", "github", "website", "summary",
}

// PersonalFieldPatch builds a patch setting one inline-editable text field.
func PersonalFieldPatch(field, value string) (PersonalPatch, error) {
	v := value
	var pp PersonalPatch
	switch field {
	case "name":
		pp.Name = &v
	case "lastName":
		pp.LastName = &v
	case "role":
		pp.Role = &v
	case "email":
		pp.Email = &v
	case "phone":
		pp.Phone = &v
	case "location":
		pp.Location = &v
	case "linkedin":
		pp.LinkedIn = &v
	case "github":
		pp.GitHub = &v
	case "website":
		pp.Website = &v
	case "summary":
		pp.Summary = &v
	default:
		return PersonalPatch{}, fmt.Errorf("field %q is not editable inline", field)
	}
	return pp, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
