package ai

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
)

// Controller plays one side of a match with a strategy. It implements
// game.PlayerController.
type Controller struct {
	kind Kind
	rng  *rand.Rand
}

// NewController returns a controller for kind. The rng drives the Random
// strategy; nil means time-seeded.
func NewController(kind Kind, rng *rand.Rand) (*Controller, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	return &Controller{kind: k, rng: rng}, nil
}

// Kind returns the strategy the controller plays.
func (c *Controller) Kind() Kind {
	return c.kind
}

func (c *Controller) ChooseMove(ctx context.Context, state *game.GameState, player game.Owner) (game.Move, error) {
	return Decide(c.kind, state, player, c.rng)
}

func (c *Controller) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// Decide runs one strategy decision for player against the match state.
func Decide(kind Kind, state *game.GameState, player game.Owner, rng *rand.Rand) (game.Move, error) {
	hand := state.Hand(player)
	if len(*hand) == 0 {
		return game.Move{}, fmt.Errorf("%s has no cards to play", player)
	}
	if len(state.Board.EmptySpaces()) == 0 {
		return game.Move{}, fmt.Errorf("board is full")
	}

	s, err := New(kind, hand, &state.Board, state.Elements, state.Rules, rng)
	if err != nil {
		return game.Move{}, err
	}
	return s.Decide(state.Score(player), state.Score(player.Other())), nil
}

// DecideView picks a move for the viewer of v. Clients that only receive
// the wire state use it to play automatically.
func DecideView(kind Kind, v game.StateView, rng *rand.Rand) (game.Move, error) {
	hand, board, elements, err := v.Restore()
	if err != nil {
		return game.Move{}, err
	}
	if len(hand) == 0 {
		return game.Move{}, fmt.Errorf("%s has no cards to play", v.You)
	}
	if len(board.EmptySpaces()) == 0 {
		return game.Move{}, fmt.Errorf("board is full")
	}

	s, err := New(kind, &hand, board, elements, v.Rules, rng)
	if err != nil {
		return game.Move{}, err
	}
	return s.Decide(v.Scores[v.You], v.Scores[v.You.Other()]), nil
}
