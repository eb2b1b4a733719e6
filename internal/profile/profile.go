package profile

import "strings"

// Contact holds the optional contact fields pulled from a document.
// Empty means the field was not found.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Profile is the structured result of entity extraction over one text.
// Every field has a deterministic zero default; extraction never fails.
type Profile struct {
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experienceYears"`
	Education       []string `json:"education"`
	Certifications  []string `json:"certifications"`
	Contact         Contact  `json:"contact"`
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Recommendations []string `json:"recommendations"`
}

// HasSkill reports whether the profile lists the skill (case-insensitive;
// profile skills are stored lowercase).
func (p Profile) HasSkill(skill string) bool {
	want := strings.ToLower(strings.TrimSpace(skill))
	for _, s := range p.Skills {
		if s == want {
			return true
		}
	}
	return false
}
