package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// Owner identifies one of the two sides of a match.
type Owner int

const (
	NoOwner  Owner = -1
	Player   Owner = 0
	Opponent Owner = 1
)

// Other returns the opposing side.
func (o Owner) Other() Owner {
	return 1 - o
}

func (o Owner) String() string {
	switch o {
	case Player:
		return "P1"
	case Opponent:
		return "P2"
	default:
		return "none"
	}
}

// Element is a card or board-slot element. Neutral means "none".
type Element int

const (
	Neutral Element = iota
	Fire
	Water
	Earth
	Thunder
	Ice
	Wind
	Poison
	Holy
)

// Elements lists the eight non-neutral elements.
var Elements = [...]Element{Fire, Water, Earth, Thunder, Ice, Wind, Poison, Holy}

func (e Element) String() string {
	switch e {
	case Fire:
		return "FIRE"
	case Water:
		return "WATER"
	case Earth:
		return "EARTH"
	case Thunder:
		return "THUNDER"
	case Ice:
		return "ICE"
	case Wind:
		return "WIND"
	case Poison:
		return "POISON"
	case Holy:
		return "HOLY"
	default:
		return "NEUTRAL"
	}
}

// ParseElement converts an element name (case-insensitive) to an Element.
// The empty string is Neutral.
func ParseElement(s string) (Element, error) {
	if s == "" {
		return Neutral, nil
	}
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == Neutral.String() {
		return Neutral, nil
	}
	for _, e := range Elements {
		if e.String() == up {
			return e, nil
		}
	}
	return Neutral, fmt.Errorf("unknown element %q", s)
}

// Side is a rank location on a card.
type Side int

const (
	Top Side = iota
	Left
	Right
	Bottom
)

// scanOrder is the order in which a placed card's sides are evaluated.
// Same and Plus lists (and the Plus sum order) follow it.
var scanOrder = [4]Side{Left, Right, Top, Bottom}

// Opposite returns the side facing s on an adjacent card.
func (s Side) Opposite() Side {
	return 3 - s
}

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "bottom"
	}
}

// --- Card ---

// MaxRank is the highest rank, displayed as "A".
const MaxRank = 10

// Card is a single card. ID, Name, Ranks, Element and Level never change
// once built; Owner and Position change during play.
type Card struct {
	ID       int
	Name     string
	Ranks    [4]int // indexed by Side
	Element  Element
	Level    int
	Owner    Owner
	Position int // -1 while in hand, 0-8 on the board
}

// NewCard builds a card that is not yet on the board.
func NewCard(id int, name string, ranks [4]int, element Element, level int) *Card {
	return &Card{
		ID:       id,
		Name:     name,
		Ranks:    ranks,
		Element:  element,
		Level:    level,
		Position: -1,
	}
}

// Rank returns the card's rank on the given side.
func (c *Card) Rank(s Side) int {
	return c.Ranks[s]
}

// Copy returns a fresh instance of the card with no position.
func (c *Card) Copy() *Card {
	cp := *c
	cp.Position = -1
	return &cp
}

func (c *Card) String() string {
	if c == nil {
		return "(empty)"
	}
	return c.Name
}

// DisplayString returns the name with ranks in top/left/right/bottom order.
func (c *Card) DisplayString() string {
	if c == nil {
		return "(empty)"
	}
	s := fmt.Sprintf("%s [%s%s%s%s]", c.Name,
		RankSymbol(c.Ranks[Top]), RankSymbol(c.Ranks[Left]),
		RankSymbol(c.Ranks[Right]), RankSymbol(c.Ranks[Bottom]))
	if c.Element != Neutral {
		s += " " + c.Element.String()
	}
	return s
}

// RankSymbol renders a rank, using "A" for 10.
func RankSymbol(r int) string {
	if r == MaxRank {
		return "A"
	}
	return fmt.Sprint(r)
}

// Move is a decision: which hand card goes to which board slot.
type Move struct {
	HandIndex int `json:"hand_index"`
	Position  int `json:"position"`
}

func (m Move) String() string {
	return fmt.Sprintf("card %d -> %d", m.HandIndex, m.Position)
}
