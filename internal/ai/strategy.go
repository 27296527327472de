// Package ai implements the computer opponents: one Strategy interface with
// Random, Offensive, Defensive and Balanced variants sharing a set of
// positional heuristics.
package ai

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/peterkuimelis/triad/internal/game"
)

// Strategy picks the next move for the hand it was built with.
type Strategy interface {
	// Decide returns the hand index and board position to play. The hand
	// must not be empty and the board must have an empty slot.
	Decide(thisScore, thatScore int) game.Move
}

// Kind names a strategy.
type Kind string

// The strategy kinds, as named in settings files and tool arguments.
const (
	Random    Kind = "random"
	Offensive Kind = "offensive"
	Defensive Kind = "defensive"
	Balanced  Kind = "balanced"
)

// ErrUnknownKind is returned for a strategy name that matches no Kind.
var ErrUnknownKind = errors.New("unknown AI kind")

// Kinds lists every strategy kind.
func Kinds() []Kind {
	return []Kind{Random, Offensive, Defensive, Balanced}
}

// ParseKind converts a name (case-insensitive) to a Kind. The empty string
// selects Balanced.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Balanced, nil
	}
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New builds a strategy over live match state. The strategy only reads the
// hand, board and element board; elements are ignored when the Elemental
// rule is off. A nil rng is replaced by a time-seeded one.
func New(kind Kind, hand *game.Hand, board *game.Board, elements *game.ElementBoard, rules game.RuleConfig, rng *rand.Rand) (Strategy, error) {
	if !rules.Elemental {
		elements = nil
	}
	b := base{hand: hand, board: board, elements: elements, rules: rules}

	switch kind {
	case Random:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		return &randomAI{base: b, rng: rng}, nil
	case Offensive:
		return &offensiveAI{base: b}, nil
	case Defensive:
		return &defensiveAI{base: b}, nil
	case Balanced:
		return &balancedAI{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// --- Shared heuristics ---

// sides lists the four directions in evaluation order.
var sides = [4]game.Side{game.Left, game.Right, game.Top, game.Bottom}

// base holds read-only references shared by every strategy.
type base struct {
	hand     *game.Hand
	board    *game.Board
	elements *game.ElementBoard
	rules    game.RuleConfig
}

// owner is the acting player, the owner of the first card in hand.
func (b *base) owner() game.Owner {
	return (*b.hand)[0].Owner
}

// rankDiff measures how exposed card would be at pos: ten per open side
// minus the ranks it shows there, elements included. Range [0, 40].
func (b *base) rankDiff(card *game.Card, pos int) int {
	total, open := 0, 0
	for _, s := range sides {
		if n, ok := game.Neighbor(pos, s); ok && b.board[n] == nil {
			total += card.Rank(s)
			open++
		}
	}
	total += b.elements.Bonus(card, pos) * open
	return max(10*open-total, 0)
}

// boardRankDiff sums rankDiff over the acting player's cards on the board.
func (b *base) boardRankDiff() int {
	owner := b.owner()
	total := 0
	for pos, c := range b.board {
		if c != nil && c.Owner == owner {
			total += b.rankDiff(c, pos)
		}
	}
	return total
}

// sideRankDiff measures how weakly the acting player's neighbors of pos
// face it: ten per such neighbor minus its facing rank, elements included.
// Range [-4, 40].
func (b *base) sideRankDiff(pos int) int {
	owner := b.owner()
	total, count := 0, 0
	for _, s := range sides {
		n, ok := game.Neighbor(pos, s)
		if !ok {
			continue
		}
		c := b.board[n]
		if c == nil || c.Owner != owner {
			continue
		}
		total += c.Rank(s.Opposite()) + b.elements.Bonus(c, n)
		count++
	}
	return 10*count - total
}

// captureCount simulates placing card at pos.
func (b *base) captureCount(card *game.Card, pos int) int {
	return game.Resolve(card, pos, b.board, b.elements, b.rules).CapturedCount()
}

// useLowestLevel reports whether level ties go to the weakest card. The
// strongest card is kept only for the last move of the player who moved
// second.
func useLowestLevel(spaces, handSize int) bool {
	return spaces%2 > 0 || handSize != 2
}

// levelWins reports whether level beats best under the tie-break mode.
func levelWins(level, best int, lowest bool) bool {
	if lowest {
		return level < best
	}
	return level > best
}

// minRankDiff picks the card and slot that leave the acting player's cards
// least exposed.
func (b *base) minRankDiff(spaces []int) game.Move {
	hand := *b.hand
	boardDiff := b.boardRankDiff()
	lowest := useLowestLevel(len(spaces), len(hand))

	var next game.Move
	minTotal := math.MaxInt
	nextLevel := -1
	for _, space := range spaces {
		sideDiff := b.sideRankDiff(space)
		for index, c := range hand {
			total := boardDiff + b.rankDiff(c, space) - sideDiff
			if total < minTotal || (total == minTotal && levelWins(c.Level, nextLevel, lowest)) {
				minTotal = total
				nextLevel = c.Level
				next = game.Move{HandIndex: index, Position: space}
			}
		}
	}
	return next
}
