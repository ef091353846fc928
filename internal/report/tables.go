package report

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"neuroassess/internal/model"
)

//go:embed tables.yaml
var defaultTables []byte

// LevelText is the descriptive content for one trait level
type LevelText struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Strengths   []string `yaml:"strengths"`
	GrowthAreas []string `yaml:"growthAreas"`
	Careers     []string `yaml:"careers"`
}

// TraitText holds a trait's display name and its three level texts
type TraitText struct {
	Name   string    `yaml:"name"`
	High   LevelText `yaml:"high"`
	Medium LevelText `yaml:"medium"`
	Low    LevelText `yaml:"low"`
}

func (t TraitText) at(level model.Level) LevelText {
	switch level {
	case model.LevelHigh:
		return t.High
	case model.LevelLow:
		return t.Low
	default:
		return t.Medium
	}
}

// Requirement is one trait-level condition of an archetype
type Requirement struct {
	Trait model.Trait `yaml:"trait"`
	Level model.Level `yaml:"level"`
}

// Archetype is a named composite of three trait-level requirements
type Archetype struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description"`
	Requirements []Requirement `yaml:"requirements"`
}

// Tables are the static lookup tables behind report text
type Tables struct {
	Traits     map[model.Trait]TraitText `yaml:"traits"`
	Archetypes []Archetype               `yaml:"archetypes"`
	Summaries  []string                  `yaml:"summaries"`
	Retake     string                    `yaml:"retake"`
}

// ParseTables decodes and checks a YAML table set
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode report tables: %w", err)
	}
	for _, trait := range model.Traits {
		if _, ok := t.Traits[trait]; !ok {
			return nil, fmt.Errorf("report tables: missing trait %s", trait)
		}
	}
	if len(t.Archetypes) == 0 {
		return nil, fmt.Errorf("report tables: no archetypes")
	}
	for _, a := range t.Archetypes {
		if len(a.Requirements) == 0 {
			return nil, fmt.Errorf("report tables: archetype %s has no requirements", a.Name)
		}
	}
	if len(t.Summaries) == 0 {
		return nil, fmt.Errorf("report tables: no summary templates")
	}
	return &t, nil
}

// DefaultTables returns the embedded table set
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTables)
}
