package game

import "fmt"

// GameState is the full state of a match.
type GameState struct {
	ID       string
	Rules    RuleConfig
	Board    Board
	Elements *ElementBoard // nil when the Elemental rule is off
	Hands    [2]Hand
	Scores   [2]int

	Round     int   // 1-based; sudden death starts a new round
	TurnCount int   // 1-based turn counter within the round
	Turn      Owner // whose move it is

	// Cards as dealt, in hand order, used to rebuild hands for sudden death.
	dealt [2][]*Card

	// Match result
	Winner Owner // Player, Opponent, or NoOwner (no winner yet, or draw)
	Over   bool
	Result string
}

// NewGameState creates the state for a match between the two hands.
func NewGameState(id string, rules RuleConfig, hands [2]Hand) *GameState {
	gs := &GameState{
		ID:     id,
		Rules:  rules,
		Winner: NoOwner,
	}
	for p, h := range hands {
		for _, c := range h {
			c.Owner = Owner(p)
			c.Position = -1
		}
		gs.Hands[p] = append(Hand(nil), h...)
		gs.dealt[p] = append([]*Card(nil), h...)
	}
	return gs
}

// Hand returns a pointer to the owner's hand.
func (gs *GameState) Hand(o Owner) *Hand {
	return &gs.Hands[o]
}

// Score returns the owner's current score.
func (gs *GameState) Score(o Owner) int {
	return gs.Scores[o]
}

// Owned counts every card of the match, in hand or on the board, held by o.
func (gs *GameState) Owned(o Owner) int {
	n := 0
	for _, side := range gs.dealt {
		for _, c := range side {
			if c.Owner == o {
				n++
			}
		}
	}
	return n
}

// HandVisible reports whether viewer may see owner's hand.
func (gs *GameState) HandVisible(viewer, owner Owner) bool {
	return viewer == owner || gs.Rules.Open
}

// Leader returns the side with the higher score, or NoOwner on a tie.
func (gs *GameState) Leader() Owner {
	switch {
	case gs.Scores[Player] > gs.Scores[Opponent]:
		return Player
	case gs.Scores[Opponent] > gs.Scores[Player]:
		return Opponent
	default:
		return NoOwner
	}
}

// --- Views ---

// CardView is the wire form of a card.
type CardView struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Ranks    [4]int `json:"ranks"`
	Element  string `json:"element,omitempty"`
	Level    int    `json:"level"`
	Owner    Owner  `json:"owner"`
	Position int    `json:"position"`
}

// ViewOf returns the wire form of c.
func ViewOf(c *Card) CardView {
	v := CardView{
		ID:       c.ID,
		Name:     c.Name,
		Ranks:    c.Ranks,
		Level:    c.Level,
		Owner:    c.Owner,
		Position: c.Position,
	}
	if c.Element != Neutral {
		v.Element = c.Element.String()
	}
	return v
}

// Card rebuilds a card from its wire form. An unknown element reads as
// Neutral.
func (cv CardView) Card() *Card {
	el, _ := ParseElement(cv.Element)
	c := NewCard(cv.ID, cv.Name, cv.Ranks, el, cv.Level)
	c.Owner = cv.Owner
	c.Position = cv.Position
	return c
}

// StateView is what one side can see of a match.
type StateView struct {
	MatchID      string               `json:"match_id"`
	You          Owner                `json:"you"`
	ToMove       Owner                `json:"to_move"`
	Round        int                  `json:"round"`
	Turn         int                  `json:"turn"`
	Rules        RuleConfig           `json:"rules"`
	Scores       [2]int               `json:"scores"`
	Board        [BoardSize]*CardView `json:"board"`
	Elements     []string             `json:"elements,omitempty"`
	Hand         []CardView           `json:"hand"`
	OpponentHand []CardView           `json:"opponent_hand,omitempty"`
	OpponentSize int                  `json:"opponent_hand_size"`
	Over         bool                 `json:"over"`
	Winner       Owner                `json:"winner"`
	Result       string               `json:"result,omitempty"`
}

// View returns the state as seen by viewer. The opponent's hand is only
// included under the Open rule.
func (gs *GameState) View(viewer Owner) StateView {
	v := StateView{
		MatchID:      gs.ID,
		You:          viewer,
		ToMove:       gs.Turn,
		Round:        gs.Round,
		Turn:         gs.TurnCount,
		Rules:        gs.Rules,
		Scores:       gs.Scores,
		OpponentSize: len(gs.Hands[viewer.Other()]),
		Over:         gs.Over,
		Winner:       gs.Winner,
		Result:       gs.Result,
	}
	for i, c := range gs.Board {
		if c != nil {
			cv := ViewOf(c)
			v.Board[i] = &cv
		}
	}
	if gs.Elements != nil {
		v.Elements = make([]string, BoardSize)
		for i, e := range gs.Elements {
			if e != Neutral {
				v.Elements[i] = e.String()
			}
		}
	}
	for _, c := range gs.Hands[viewer] {
		v.Hand = append(v.Hand, ViewOf(c))
	}
	if gs.HandVisible(viewer, viewer.Other()) {
		for _, c := range gs.Hands[viewer.Other()] {
			v.OpponentHand = append(v.OpponentHand, ViewOf(c))
		}
	}
	return v
}

// Summary is a one-line description of the current state.
func (gs *GameState) Summary() string {
	if gs.Over {
		return gs.Result
	}
	return fmt.Sprintf("round %d turn %d, %s to move, score %d-%d",
		gs.Round, gs.TurnCount, gs.Turn, gs.Scores[Player], gs.Scores[Opponent])
}
