package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/peterkuimelis/triad/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of moves.
// Used in tests to deterministically drive the match. Once the script runs out it
// plays its first card on the first empty position.
type ScriptedController struct {
	t     *testing.T
	name  string
	moves []scriptedMove
	pos   int
}

type scriptedMove struct {
	// Pick the card by name when set, otherwise use Move.HandIndex as-is.
	CardName string
	Move     Move
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

// AddMove scripts placing the named card at pos.
func (sc *ScriptedController) AddMove(cardName string, pos int) *ScriptedController {
	sc.moves = append(sc.moves, scriptedMove{CardName: cardName, Move: Move{Position: pos}})
	return sc
}

// AddRaw scripts a move exactly as given, legal or not.
func (sc *ScriptedController) AddRaw(handIndex, pos int) *ScriptedController {
	sc.moves = append(sc.moves, scriptedMove{Move: Move{HandIndex: handIndex, Position: pos}})
	return sc
}

func (sc *ScriptedController) ChooseMove(ctx context.Context, state *GameState, player Owner) (Move, error) {
	hand := state.Hands[player]
	if sc.pos >= len(sc.moves) {
		spaces := state.Board.EmptySpaces()
		if len(hand) == 0 || len(spaces) == 0 {
			return Move{}, fmt.Errorf("%s: nothing to play", sc.name)
		}
		return Move{HandIndex: 0, Position: spaces[0]}, nil
	}

	scripted := sc.moves[sc.pos]
	sc.pos++
	if scripted.CardName == "" {
		return scripted.Move, nil
	}
	for i, c := range hand {
		if c.Name == scripted.CardName {
			return Move{HandIndex: i, Position: scripted.Move.Position}, nil
		}
	}
	sc.t.Fatalf("%s: scripted card %q not in hand %v", sc.name, scripted.CardName, hand.Names())
	return Move{}, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Card helpers ---

// card builds a neutral level-1 card with ranks top, left, right, bottom.
func card(name string, top, left, right, bottom int) *Card {
	return NewCard(0, name, [4]int{top, left, right, bottom}, Neutral, 1)
}

func elemCard(name string, e Element, top, left, right, bottom int) *Card {
	c := card(name, top, left, right, bottom)
	c.Element = e
	return c
}

// put places c on b at pos for owner, bypassing any hand.
func put(b *Board, c *Card, owner Owner, pos int) *Card {
	c.Owner = owner
	c.Position = pos
	b[pos] = c
	return c
}

// handOf builds n identical cards named prefix0..prefixN-1.
func handOf(prefix string, n int, top, left, right, bottom int) Hand {
	h := make(Hand, n)
	for i := range h {
		h[i] = card(fmt.Sprintf("%s%d", prefix, i), top, left, right, bottom)
	}
	return h
}

func names(cards []*Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name
	}
	return out
}

func noRules() RuleConfig {
	return RuleConfig{}
}

// runMatchToCompletion runs a deterministic match and fails the test on error.
func runMatchToCompletion(t *testing.T, cfg MatchConfig, p0, p1 PlayerController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true // deterministic tests
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	m, err := NewMatch(cfg, p0, p1)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}

	winner, err := m.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Match error: %v", err)
	}

	// Always print event log for visibility (tests are run with -v)
	t.Logf("Match result: winner=%s (%s)", winner, m.State.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))

	return m, logger
}
