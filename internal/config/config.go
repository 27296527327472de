// Package config loads match settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
)

// AI selects the strategy for each side. The player side is used when the
// human hands control to the computer.
type AI struct {
	Player   string `yaml:"player"`
	Opponent string `yaml:"opponent"`
}

// Settings is the top-level settings file.
type Settings struct {
	Rules game.RuleConfig `yaml:"rules"`
	AI    AI              `yaml:"ai"`

	// Cards is a catalog file; empty means the built-in catalog.
	Cards string `yaml:"cards"`

	// Seed fixes the match RNG; 0 means random.
	Seed int64 `yaml:"seed"`

	// SuddenDeathRounds caps sudden death; 0 means the default.
	SuddenDeathRounds int `yaml:"sudden_death_rounds"`
}

// Default returns the settings used when no file is given: every rule on
// except Open, and balanced AI on both sides.
func Default() Settings {
	return Settings{
		Rules: game.DefaultRules(),
		AI: AI{
			Player:   string(ai.Balanced),
			Opponent: string(ai.Balanced),
		},
	}
}

// Load reads settings from path on top of Default, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, err
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parse settings %s: %w", path, err)
			}
		}
	}
	s.applyEnv()
	return s, s.Validate()
}

func (s *Settings) applyEnv() {
	s.AI.Player = getenv("TRIAD_AI_PLAYER", s.AI.Player)
	s.AI.Opponent = getenv("TRIAD_AI_OPPONENT", s.AI.Opponent)
	s.Cards = getenv("TRIAD_CARDS", s.Cards)
	s.Seed = getenvInt64("TRIAD_SEED", s.Seed)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

// Validate checks the AI names and numeric limits.
func (s Settings) Validate() error {
	if _, err := ai.ParseKind(s.AI.Player); err != nil {
		return fmt.Errorf("ai.player: %w", err)
	}
	if _, err := ai.ParseKind(s.AI.Opponent); err != nil {
		return fmt.Errorf("ai.opponent: %w", err)
	}
	if s.SuddenDeathRounds < 0 {
		return fmt.Errorf("sudden_death_rounds: must not be negative, got %d", s.SuddenDeathRounds)
	}
	return nil
}

// Kinds returns the parsed player and opponent strategies.
func (s Settings) Kinds() (player, opponent ai.Kind) {
	player, _ = ai.ParseKind(s.AI.Player)
	opponent, _ = ai.ParseKind(s.AI.Opponent)
	return player, opponent
}

// Catalog loads the configured card catalog.
func (s Settings) Catalog() (*game.Catalog, error) {
	return game.LoadCatalog(s.Cards)
}

// MatchConfig builds a match configuration from the settings.
func (s Settings) MatchConfig(cat *game.Catalog) game.MatchConfig {
	return game.MatchConfig{
		Rules:                s.Rules,
		Catalog:              cat,
		Seed:                 s.Seed,
		MaxSuddenDeathRounds: s.SuddenDeathRounds,
	}
}
