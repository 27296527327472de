package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

const (
	BoardSize = 9
	BoardRows = 3
	HandSize  = 5

	// elementChance is the per-slot probability of an elemental bonus.
	elementChance = 0.25
)

var (
	ErrBadHandIndex = errors.New("hand index out of range")
	ErrBadPosition  = errors.New("board position out of range")
	ErrOccupied     = errors.New("board position already taken")
)

// IsIllegalMove reports whether err is one of the move legality errors.
func IsIllegalMove(err error) bool {
	return errors.Is(err, ErrBadHandIndex) || errors.Is(err, ErrBadPosition) || errors.Is(err, ErrOccupied)
}

// Neighbor returns the slot adjacent to pos on side s, if it exists.
func Neighbor(pos int, s Side) (int, bool) {
	switch s {
	case Left:
		return pos - 1, pos%BoardRows != 0
	case Right:
		return pos + 1, pos%BoardRows != BoardRows-1
	case Top:
		return pos - BoardRows, pos >= BoardRows
	default:
		return pos + BoardRows, pos < BoardSize-BoardRows
	}
}

// --- Hand ---

// Hand is an ordered set of cards not yet played.
type Hand []*Card

// Remove takes the card at index out of the hand and returns it.
func (h *Hand) Remove(index int) *Card {
	cards := *h
	c := cards[index]
	*h = append(cards[:index:index], cards[index+1:]...)
	return c
}

// Names returns the card names in hand order.
func (h Hand) Names() []string {
	names := make([]string, len(h))
	for i, c := range h {
		names[i] = c.Name
	}
	return names
}

// --- Board ---

// Board holds the cards placed on the 3x3 grid, indexed by position.
type Board [BoardSize]*Card

// EmptySpaces returns all empty positions in ascending order.
func (b *Board) EmptySpaces() []int {
	var spaces []int
	for i, c := range b {
		if c == nil {
			spaces = append(spaces, i)
		}
	}
	return spaces
}

// Count returns the number of cards on the board.
func (b *Board) Count() int {
	n := 0
	for _, c := range b {
		if c != nil {
			n++
		}
	}
	return n
}

// Check validates a move of hand[index] to pos without changing anything.
func (b *Board) Check(h Hand, index, pos int) error {
	if index < 0 || index >= len(h) {
		return fmt.Errorf("%w: %d (hand has %d)", ErrBadHandIndex, index, len(h))
	}
	if pos < 0 || pos >= BoardSize {
		return fmt.Errorf("%w: %d", ErrBadPosition, pos)
	}
	if b[pos] != nil {
		return fmt.Errorf("%w: %d holds %s", ErrOccupied, pos, b[pos].Name)
	}
	return nil
}

// Place moves hand[index] onto the board at pos. The card leaves the hand
// and enters the board in one step.
func (b *Board) Place(h *Hand, index, pos int) (*Card, error) {
	if err := b.Check(*h, index, pos); err != nil {
		return nil, err
	}
	card := h.Remove(index)
	card.Position = pos
	b[pos] = card
	return card, nil
}

// Clear empties the board and resets card positions.
func (b *Board) Clear() {
	for i, c := range b {
		if c != nil {
			c.Position = -1
		}
		b[i] = nil
	}
}

// String renders the board as three rows of card names.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardRows; col++ {
			if col > 0 {
				sb.WriteString(" | ")
			}
			c := b[row*BoardRows+col]
			if c == nil {
				sb.WriteString("-")
				continue
			}
			fmt.Fprintf(&sb, "%s(%s)", c.Name, c.Owner)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- ElementBoard ---

// ElementBoard holds the elemental bonus of each slot. A nil *ElementBoard
// means the Elemental rule is off.
type ElementBoard [BoardSize]Element

// NewElementBoard draws a random element board. Each slot independently
// has a 25% chance of taking the next element from one shuffle of the
// eight elements, so no element appears twice.
func NewElementBoard(rng *rand.Rand) *ElementBoard {
	pool := Elements
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	next := len(pool)

	var eb ElementBoard
	for i := range eb {
		if rng.Float64() < elementChance && next > 0 {
			next--
			eb[i] = pool[next]
		}
	}
	return &eb
}

// Bonus returns the rank adjustment for card c sitting at pos:
// +1 on a matching element, -1 on a different element, 0 on a neutral
// slot or when elements are off.
func (eb *ElementBoard) Bonus(c *Card, pos int) int {
	if eb == nil || eb[pos] == Neutral {
		return 0
	}
	if c.Element == eb[pos] {
		return 1
	}
	return -1
}

// At returns the element at pos, Neutral when elements are off.
func (eb *ElementBoard) At(pos int) Element {
	if eb == nil {
		return Neutral
	}
	return eb[pos]
}

// ParseElementBoard reads an element board from one name per slot, as
// StateView carries it. Empty names are neutral; a nil slice means the
// Elemental rule is off.
func ParseElementBoard(names []string) (*ElementBoard, error) {
	if names == nil {
		return nil, nil
	}
	if len(names) != BoardSize {
		return nil, fmt.Errorf("element board needs %d slots, got %d", BoardSize, len(names))
	}
	var eb ElementBoard
	for i, name := range names {
		e, err := ParseElement(name)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		eb[i] = e
	}
	return &eb, nil
}

func (eb *ElementBoard) String() string {
	if eb == nil {
		return ""
	}
	var parts []string
	for i, e := range eb {
		if e != Neutral {
			parts = append(parts, fmt.Sprintf("%d:%s", i, e))
		}
	}
	return strings.Join(parts, " ")
}
