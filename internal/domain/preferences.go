package domain

import "time"

// Preferences es el registro unico de preferencias alimentarias de un usuario.
type Preferences struct {
	UserID              string    `json:"user_id"`
	Allergies           []string  `json:"allergies"`
	DietaryRestrictions []string  `json:"dietary_restrictions"`
	HealthGoals         *string   `json:"health_goals"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PreferencesPatch describe una actualizacion parcial; los campos nil no cambian.
type PreferencesPatch struct {
	Allergies           *[]string
	DietaryRestrictions *[]string
	HealthGoals         *string
}

// Apply devuelve una copia de p con el patch aplicado.
func (p Preferences) Apply(patch PreferencesPatch, now time.Time) Preferences {
	out := p
	if patch.Allergies != nil {
		out.Allergies = NormalizeTags(*patch.Allergies)
	}
	if patch.DietaryRestrictions != nil {
		out.DietaryRestrictions = NormalizeTags(*patch.DietaryRestrictions)
	}
	if patch.HealthGoals != nil {
		goals := *patch.HealthGoals
		out.HealthGoals = &goals
	}
	out.UpdatedAt = now
	return out
}

// NormalizeTags colapsa duplicados exactos, descarta vacios y conserva el orden
// de primera aparicion. Nunca devuelve nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
