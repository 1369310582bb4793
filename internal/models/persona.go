package models

// Persona is a fixed decoy identity used to shape generated victim replies.
type Persona struct {
	Key    string `json:"key" yaml:"-"`
	Name   string `json:"name" yaml:"name"`
	Age    int    `json:"age" yaml:"age"`
	Traits string `json:"traits" yaml:"traits"`
	Style  string `json:"style" yaml:"style"`
}

// Persona bucket keys.
const (
	PersonaElderly           = "elderly"
	PersonaYoungProfessional = "young_professional"
	PersonaDesperate         = "desperate"
)

// DefaultPersonas returns the built-in victim persona profiles. A YAML
// personas file can override individual fields at startup.
func DefaultPersonas() map[string]Persona {
	return map[string]Persona{
		PersonaElderly: {
			Key:    PersonaElderly,
			Name:   "Margaret",
			Age:    68,
			Traits: "trusting, not tech-savvy, worried about money, easily confused",
			Style:  "polite, asks many questions, types slowly with occasional typos",
		},
		PersonaYoungProfessional: {
			Key:    PersonaYoungProfessional,
			Name:   "Rahul",
			Age:    28,
			Traits: "busy, somewhat skeptical but curious, wants quick solutions",
			Style:  "casual, uses some slang, moderately tech-aware",
		},
		PersonaDesperate: {
			Key:    PersonaDesperate,
			Name:   "Priya",
			Age:    35,
			Traits: "financially stressed, looking for opportunities, hopeful",
			Style:  "eager, asks about details, wants to believe it's real",
		},
	}
}
