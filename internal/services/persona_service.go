package services

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"honeynet/internal/models"
)

// PersonaService maps scam categories to decoy victim personas. Selection
// is a pure total function: every category, including ones the oracle
// invents, resolves to exactly one persona.
type PersonaService struct {
	personas map[string]models.Persona
}

// NewPersonaService loads the built-in personas, optionally overlaying
// profiles from a YAML file (keyed by persona bucket).
func NewPersonaService(personasFile string) (*PersonaService, error) {
	personas := models.DefaultPersonas()

	if personasFile != "" {
		data, err := os.ReadFile(personasFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read personas file: %w", err)
		}

		var overrides map[string]models.Persona
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse personas YAML: %w", err)
		}

		for key, override := range overrides {
			base, ok := personas[key]
			if !ok {
				log.Printf("⚠️  [PERSONA] Ignoring unknown persona bucket %q in %s", key, personasFile)
				continue
			}
			if override.Name != "" {
				base.Name = override.Name
			}
			if override.Age != 0 {
				base.Age = override.Age
			}
			if override.Traits != "" {
				base.Traits = override.Traits
			}
			if override.Style != "" {
				base.Style = override.Style
			}
			personas[key] = base
		}
		log.Printf("✅ Persona profiles loaded from %s", personasFile)
	}

	return &PersonaService{personas: personas}, nil
}

// Select returns the persona for a scam category.
// Prize and investment scams get the financially-desperate responder, tech
// support and phishing get the low-tech-sophistication responder, and
// everything else (romance, job, impersonation, donation, unknown, or any
// unrecognized category) gets the skeptical-but-curious professional.
func (s *PersonaService) Select(scamType string) models.Persona {
	var key string
	switch scamType {
	case models.ScamTypePrize, models.ScamTypeInvestmentFraud:
		key = models.PersonaDesperate
	case models.ScamTypeTechSupport, models.ScamTypePhishing:
		key = models.PersonaElderly
	default:
		key = models.PersonaYoungProfessional
	}
	return s.personas[key]
}
