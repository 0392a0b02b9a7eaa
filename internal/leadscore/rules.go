// Package leadscore computes on-demand lead scores, personas and urgency for
// stored signals from a declarative rule table.
package leadscore

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"leadscout/internal/model"
)

//go:embed rules.yaml
var defaultRules []byte

// TermGroup adds Weight once per distinct matched term.
type TermGroup struct {
	Name   string   `yaml:"name"`
	Weight int      `yaml:"weight"`
	Terms  []string `yaml:"terms"`
	// Author also searches the author name.
	Author bool `yaml:"author"`
	// Subsumes maps a term to shorter terms it contains that must not be
	// counted again inside it.
	Subsumes map[string][]string `yaml:"subsumes"`
}

// Flagship scores mentions of the competing open-source project.
type Flagship struct {
	Term    string      `yaml:"term"`
	Weight  int         `yaml:"weight"`
	Bonuses []TermGroup `yaml:"bonuses"`
}

// Bracket multiplies the score when engagement exceeds Above.
type Bracket struct {
	Above  int     `yaml:"above"`
	Factor float64 `yaml:"factor"`
}

// PersonaRule is one step of the persona decision list.
type PersonaRule struct {
	Persona string   `yaml:"persona"`
	When    []string `yaml:"when"`
	Author  []string `yaml:"author"`
	Content []string `yaml:"content"`
}

// UrgencyRules maps weighted term lists to Low/Medium/High.
type UrgencyRules struct {
	Terms  []TermGroup `yaml:"terms"`
	High   int         `yaml:"high"`
	Medium int         `yaml:"medium"`
}

// SentimentRules holds the word lists of the flagship monitor.
type SentimentRules struct {
	Positive   []string `yaml:"positive"`
	Negative   []string `yaml:"negative"`
	Comparison []string `yaml:"comparison"`
	Technical  []string `yaml:"technical"`
	Business   []string `yaml:"business"`
}

// Rules is the whole scoring table.
type Rules struct {
	Flagship       Flagship           `yaml:"flagship"`
	Groups         []TermGroup        `yaml:"groups"`
	Engagement     []Bracket          `yaml:"engagement"`
	Platforms      map[string]float64 `yaml:"platforms"`
	Personas       []PersonaRule      `yaml:"personas"`
	DefaultPersona string             `yaml:"default_persona"`
	Urgency        UrgencyRules       `yaml:"urgency"`
	Competitors    []string           `yaml:"competitors"`
	Sentiment      SentimentRules     `yaml:"sentiment"`
}

// LoadRules decodes and validates a rule table.
func LoadRules(r io.Reader) (*Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return nil, fmt.Errorf("leadscore: decode rules: %w", err)
	}
	if err := rules.validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// DefaultRules returns the embedded rule table.
func DefaultRules() *Rules {
	var rules Rules
	if err := yaml.Unmarshal(defaultRules, &rules); err != nil {
		panic("leadscore: embedded rules: " + err.Error())
	}
	if err := rules.validate(); err != nil {
		panic(err.Error())
	}
	return &rules
}

func (r *Rules) validate() error {
	if r.Flagship.Weight < 0 {
		return fmt.Errorf("leadscore: negative flagship weight")
	}
	for _, g := range append(append([]TermGroup{}, r.Groups...), r.Flagship.Bonuses...) {
		if g.Weight < 0 {
			return fmt.Errorf("leadscore: group %q has negative weight", g.Name)
		}
		if err := g.validateSubsumes(); err != nil {
			return err
		}
	}
	for _, b := range r.Engagement {
		if b.Factor < 1 {
			return fmt.Errorf("leadscore: engagement factor %.2f below 1", b.Factor)
		}
	}
	for p, f := range r.Platforms {
		if _, ok := model.ParsePlatform(p); !ok {
			return fmt.Errorf("leadscore: unknown platform %q", p)
		}
		if f < 1 {
			return fmt.Errorf("leadscore: platform %s factor %.2f below 1", p, f)
		}
	}
	if r.DefaultPersona == "" {
		return fmt.Errorf("leadscore: default_persona is required")
	}
	return nil
}

func (g TermGroup) validateSubsumes() error {
	for long, shorts := range g.Subsumes {
		if !slices.Contains(g.Terms, long) {
			return fmt.Errorf("leadscore: group %q subsumes from unknown term %q", g.Name, long)
		}
		for _, short := range shorts {
			if !slices.Contains(g.Terms, short) {
				return fmt.Errorf("leadscore: group %q subsumes unknown term %q", g.Name, short)
			}
			if len(short) >= len(long) || !strings.Contains(strings.ToLower(long), strings.ToLower(short)) {
				return fmt.Errorf("leadscore: group %q subsumes %q which %q does not contain", g.Name, short, long)
			}
		}
	}
	return nil
}

// percent converts a factor such as 1.3 to 130 so products stay exact.
func percent(f float64) int {
	return int(math.Round(f * 100))
}

// engagementPercent picks the single highest bracket that applies.
func (r *Rules) engagementPercent(engagement int) int {
	best := 100
	bestAbove := -1
	for _, b := range r.Engagement {
		if engagement > b.Above && b.Above > bestAbove {
			best, bestAbove = percent(b.Factor), b.Above
		}
	}
	return best
}

func (r *Rules) platformPercent(p model.Platform) int {
	for name, f := range r.Platforms {
		if q, ok := model.ParsePlatform(name); ok && q == p {
			return percent(f)
		}
	}
	return 100
}
