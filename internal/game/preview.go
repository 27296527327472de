package game

import "fmt"

// Restore rebuilds the viewer's hand, the board and the element board from
// a view. The cards are fresh copies; playing on them does not touch the
// match the view was taken from.
func (v StateView) Restore() (Hand, *Board, *ElementBoard, error) {
	hand := make(Hand, 0, len(v.Hand))
	for _, cv := range v.Hand {
		hand = append(hand, cv.Card())
	}
	var board Board
	for i, cv := range v.Board {
		if cv == nil {
			continue
		}
		if cv.Position != i {
			return nil, nil, nil, fmt.Errorf("card %s at slot %d claims position %d", cv.Name, i, cv.Position)
		}
		board[i] = cv.Card()
	}
	elements, err := ParseElementBoard(v.Elements)
	if err != nil {
		return nil, nil, nil, err
	}
	if !v.Rules.Elemental {
		elements = nil
	}
	return hand, &board, elements, nil
}

// Preview is what a move would do, by card name, without playing it.
type Preview struct {
	Card          string     `json:"card"`
	Position      int        `json:"position"`
	Same          []string   `json:"same,omitempty"`
	Plus          []string   `json:"plus,omitempty"`
	Captured      []string   `json:"captured,omitempty"`
	Combo         [][]string `json:"combo,omitempty"`
	CapturedCount int        `json:"captured_count"`
}

// Preview resolves mv for the viewer of v.
func (v StateView) Preview(mv Move) (*Preview, error) {
	hand, board, elements, err := v.Restore()
	if err != nil {
		return nil, err
	}
	if err := board.Check(hand, mv.HandIndex, mv.Position); err != nil {
		return nil, err
	}

	card := hand[mv.HandIndex]
	res := Resolve(card, mv.Position, board, elements, v.Rules)
	p := &Preview{
		Card:          card.Name,
		Position:      mv.Position,
		Same:          cardNames(res.Same()),
		Plus:          cardNames(res.Plus()),
		Captured:      cardNames(res.Captured()),
		CapturedCount: res.CapturedCount(),
	}
	for _, wave := range res.Waves() {
		p.Combo = append(p.Combo, cardNames(wave))
	}
	return p, nil
}

func cardNames(cards []*Card) []string {
	if len(cards) == 0 {
		return nil
	}
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return names
}
