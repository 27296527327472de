package game

import "strings"

// RuleConfig holds the rule toggles of a match. It is read-only once a
// match starts.
type RuleConfig struct {
	Open        bool `yaml:"open" json:"open"`
	Same        bool `yaml:"same" json:"same"`
	SameWall    bool `yaml:"same_wall" json:"same_wall"`
	Plus        bool `yaml:"plus" json:"plus"`
	Combo       bool `yaml:"combo" json:"combo"`
	Elemental   bool `yaml:"elemental" json:"elemental"`
	SuddenDeath bool `yaml:"sudden_death" json:"sudden_death"`
}

// DefaultRules enables every rule except Open.
func DefaultRules() RuleConfig {
	return RuleConfig{
		Same:        true,
		SameWall:    true,
		Plus:        true,
		Combo:       true,
		Elemental:   true,
		SuddenDeath: true,
	}
}

// Names lists the enabled rules.
func (r RuleConfig) Names() []string {
	var names []string
	add := func(on bool, name string) {
		if on {
			names = append(names, name)
		}
	}
	add(r.Open, "Open")
	add(r.Same, "Same")
	add(r.SameWall, "Same Wall")
	add(r.Plus, "Plus")
	add(r.Combo, "Combo")
	add(r.Elemental, "Elemental")
	add(r.SuddenDeath, "Sudden Death")
	return names
}

func (r RuleConfig) String() string {
	names := r.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
