package timing

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// HeuristicRule binds a window set to destinations whose lowercased name
// contains the given substring.
type HeuristicRule struct {
	Contains string   `yaml:"contains"`
	Windows  []Window `yaml:"windows"`
}

// Heuristics is the static fallback used when a destination has too little
// recorded engagement to derive windows from data. Rules are evaluated in
// order; the first match wins.
type Heuristics struct {
	Rules   []HeuristicRule `yaml:"rules"`
	Default []Window        `yaml:"default"`
}

// DefaultHeuristics returns the built-in window sets. Destinations named
// after a working-day audience peak at lunch and after work, weekend
// communities in the late morning and afternoon, and international ones
// spread across three blocks to cover distant timezones. Everything else
// gets the general evening peak.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Rules: []HeuristicRule{
			{
				Contains: "workday",
				Windows: []Window{
					{StartHour: 17, EndHour: 22, Confidence: 1.0},
					{StartHour: 12, EndHour: 14, Confidence: 0.8},
				},
			},
			{
				Contains: "weekend",
				Windows: []Window{
					{StartHour: 14, EndHour: 18, Confidence: 1.0},
					{StartHour: 9, EndHour: 12, Confidence: 0.9},
				},
			},
			{
				Contains: "international",
				Windows: []Window{
					{StartHour: 18, EndHour: 23, Confidence: 1.0},
					{StartHour: 6, EndHour: 9, Confidence: 0.8},
					{StartHour: 12, EndHour: 15, Confidence: 0.7},
				},
			},
		},
		Default: []Window{
			{StartHour: 18, EndHour: 23, Confidence: 1.0},
			{StartHour: 12, EndHour: 14, Confidence: 0.6},
		},
	}
}

// WindowsFor returns the window set for a destination name, matching rules
// case-insensitively and falling back to the default set.
func (h Heuristics) WindowsFor(destination string) []Window {
	name := strings.ToLower(destination)
	for _, rule := range h.Rules {
		if rule.Contains != "" && strings.Contains(name, rule.Contains) {
			return rule.Windows
		}
	}
	return h.Default
}

// Validate checks every rule and window against the window invariants.
func (h Heuristics) Validate() error {
	if len(h.Default) == 0 {
		return errors.Join(ErrInvalidHeuristics, errors.New("default window set is empty"))
	}
	for _, w := range h.Default {
		if !w.Valid() {
			return errors.Join(ErrInvalidHeuristics,
				fmt.Errorf("default window %d-%d confidence %.2f", w.StartHour, w.EndHour, w.Confidence))
		}
	}
	for _, rule := range h.Rules {
		if rule.Contains == "" {
			return errors.Join(ErrInvalidHeuristics, errors.New("rule with empty substring"))
		}
		if len(rule.Windows) == 0 {
			return errors.Join(ErrInvalidHeuristics,
				fmt.Errorf("rule %q has no windows", rule.Contains))
		}
		for _, w := range rule.Windows {
			if !w.Valid() {
				return errors.Join(ErrInvalidHeuristics,
					fmt.Errorf("rule %q window %d-%d confidence %.2f", rule.Contains, w.StartHour, w.EndHour, w.Confidence))
			}
		}
	}
	return nil
}

// LoadHeuristics reads a YAML heuristics file so operators can tune window
// sets without a rebuild. The file fully replaces the built-in sets.
func LoadHeuristics(path string) (Heuristics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Heuristics{}, errors.Join(ErrInvalidHeuristics, err)
	}

	var h Heuristics
	if err := yaml.Unmarshal(data, &h); err != nil {
		return Heuristics{}, errors.Join(ErrInvalidHeuristics, err)
	}
	if err := h.Validate(); err != nil {
		return Heuristics{}, err
	}
	return h, nil
}
