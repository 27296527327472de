package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
)

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triad.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Rules != game.DefaultRules() {
		t.Errorf("Expected default rules, got %s", s.Rules)
	}
	if p, o := s.Kinds(); p != ai.Balanced || o != ai.Balanced {
		t.Errorf("Expected balanced AI on both sides, got %s / %s", p, o)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Rules != game.DefaultRules() {
		t.Error("Expected defaults for a missing file")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
rules:
  open: true
  same: true
  plus: false
  combo: false
ai:
  opponent: offensive
seed: 99
sudden_death_rounds: 2
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Unset keys keep their defaults.
	want := game.DefaultRules()
	want.Open = true
	want.Plus = false
	want.Combo = false
	if s.Rules != want {
		t.Errorf("Rules = %+v, want %+v", s.Rules, want)
	}
	if p, o := s.Kinds(); p != ai.Balanced || o != ai.Offensive {
		t.Errorf("Expected balanced/offensive, got %s / %s", p, o)
	}
	if s.Seed != 99 || s.SuddenDeathRounds != 2 {
		t.Errorf("Unexpected seed %d or sudden death rounds %d", s.Seed, s.SuddenDeathRounds)
	}

	cfg := s.MatchConfig(nil)
	if cfg.Seed != 99 || cfg.MaxSuddenDeathRounds != 2 || cfg.Rules != want {
		t.Errorf("Unexpected match config %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRIAD_AI_PLAYER", "random")
	t.Setenv("TRIAD_AI_OPPONENT", "Defensive")
	t.Setenv("TRIAD_SEED", "1234")

	s, err := Load(writeFile(t, "ai:\n  opponent: offensive\nseed: 5\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p, o := s.Kinds(); p != ai.Random || o != ai.Defensive {
		t.Errorf("Expected random/defensive, got %s / %s", p, o)
	}
	if s.Seed != 1234 {
		t.Errorf("Expected seed 1234, got %d", s.Seed)
	}
}

func TestValidate(t *testing.T) {
	if _, err := Load(writeFile(t, "ai:\n  player: genius\n")); !errors.Is(err, ai.ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
	if _, err := Load(writeFile(t, "sudden_death_rounds: -1\n")); err == nil {
		t.Error("Expected an error for negative sudden death rounds")
	}
	if _, err := Load(writeFile(t, "rules: [\n")); err == nil {
		t.Error("Expected a YAML error")
	}
}

func TestCatalogFromSettings(t *testing.T) {
	s := Default()
	cat, err := s.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() == 0 {
		t.Error("Expected the built-in catalog")
	}

	s.Cards = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := s.Catalog(); err == nil {
		t.Error("Expected an error for a missing catalog file")
	}
}
