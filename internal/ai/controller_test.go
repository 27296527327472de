package ai

import (
	"context"
	"math/rand"
	"testing"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
)

// TestAIMatches plays every strategy against Balanced over a few seeds.
func TestAIMatches(t *testing.T) {
	for _, kind := range Kinds() {
		for seed := int64(1); seed <= 5; seed++ {
			rng := rand.New(rand.NewSource(seed))
			p0, err := NewController(kind, rng)
			if err != nil {
				t.Fatal(err)
			}
			p1, _ := NewController(Balanced, rng)

			logger := log.NewMemoryLogger()
			m, err := game.NewMatch(game.MatchConfig{Rules: game.DefaultRules(), Logger: logger, Seed: seed}, p0, p1)
			if err != nil {
				t.Fatal(err)
			}
			winner, err := m.Run(context.Background())
			if err != nil {
				t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
				t.Fatalf("%s seed %d: %v", kind, seed, err)
			}

			gs := m.State
			if !gs.Over {
				t.Fatalf("%s seed %d: match not over", kind, seed)
			}
			if sum := gs.Scores[game.Player] + gs.Scores[game.Opponent]; sum != 10 {
				t.Errorf("%s seed %d: scores sum to %d", kind, seed, sum)
			}
			if n := len(logger.EventsOfType(log.EventRejected)); n != 0 {
				t.Errorf("%s seed %d: %d rejected moves", kind, seed, n)
			}
			if winner != gs.Leader() {
				t.Errorf("%s seed %d: winner %s but leader %s", kind, seed, winner, gs.Leader())
			}
		}
	}
}

func TestNewControllerKinds(t *testing.T) {
	c, err := NewController("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind() != Balanced {
		t.Errorf("Expected the default kind to be balanced, got %s", c.Kind())
	}
	if _, err := NewController("psychic", nil); err == nil {
		t.Error("Expected an error for an unknown kind")
	}
}

func TestDecideEmptyHand(t *testing.T) {
	gs := game.NewGameState("x", game.DefaultRules(), [2]game.Hand{nil, nil})
	if _, err := Decide(Balanced, gs, game.Player, nil); err == nil {
		t.Error("Expected an error for an empty hand")
	}
}

// TestDecideViewMatchesDecide checks that deciding from the wire view gives
// the same move as deciding from the live state.
func TestDecideViewMatchesDecide(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		m, err := game.NewMatch(game.MatchConfig{Rules: game.DefaultRules(), Seed: seed}, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		m.Start()
		for !m.State.Over {
			gs := m.State
			want, err := Decide(Balanced, gs, gs.Turn, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := DecideView(Balanced, gs.View(gs.Turn), nil)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Fatalf("seed %d round %d turn %d: view move %v, state move %v", seed, gs.Round, gs.TurnCount, got, want)
			}
			if _, err := m.Play(want); err != nil {
				t.Fatal(err)
			}
		}
	}
}
