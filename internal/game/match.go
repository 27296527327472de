package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/triad/internal/log"
)

const (
	// DefaultSuddenDeathRounds caps the extra rounds a tied match may play.
	DefaultSuddenDeathRounds = 5

	// maxMoveAttempts is how many illegal moves a controller may make in a
	// row before the match fails.
	maxMoveAttempts = 3
)

// PlayerController is the interface implemented by everything that can
// play one side of a match: AI strategies, network players, MCP agents.
type PlayerController interface {
	// ChooseMove asks the player to pick a card from its hand and an empty
	// board position. The state must be treated as read-only.
	ChooseMove(ctx context.Context, state *GameState, player Owner) (Move, error)

	// Notify sends a match event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	ID      string // generated when empty
	Rules   RuleConfig
	Catalog *Catalog // cards to deal from; nil uses the built-in catalog
	Hands   [2]Hand  // explicit hands; dealt from Catalog when both are empty

	// Elements fixes the element board of the first round. Ignored unless
	// the Elemental rule is on.
	Elements *ElementBoard

	Logger    log.EventLogger
	Seed      int64 // RNG seed (0 for random)
	NoShuffle bool  // deal in catalog order and let Player move first (for deterministic tests)

	// MaxSuddenDeathRounds caps sudden death (0 = DefaultSuddenDeathRounds).
	MaxSuddenDeathRounds int
}

// Match orchestrates a game between two players, including sudden death.
type Match struct {
	State       *GameState
	Controllers [2]PlayerController
	Logger      log.EventLogger

	ctx       context.Context
	rng       *rand.Rand
	noShuffle bool
	maxRounds int
	elements  *ElementBoard
}

// NewMatch creates a new match from the given config and player controllers.
func NewMatch(cfg MatchConfig, p0, p1 PlayerController) (*Match, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	hands := cfg.Hands
	if len(hands[Player]) == 0 && len(hands[Opponent]) == 0 {
		cat := cfg.Catalog
		if cat == nil {
			var err error
			if cat, err = DefaultCatalog(); err != nil {
				return nil, fmt.Errorf("load catalog: %w", err)
			}
		}
		dealRng := rng
		if cfg.NoShuffle {
			dealRng = nil
		}
		var err error
		if hands, err = cat.Deal(dealRng); err != nil {
			return nil, fmt.Errorf("deal: %w", err)
		}
	}
	if len(hands[Player]) == 0 || len(hands[Opponent]) == 0 {
		return nil, fmt.Errorf("both players need cards (have %d and %d)", len(hands[Player]), len(hands[Opponent]))
	}
	if n := len(hands[Player]) + len(hands[Opponent]); n > BoardSize+1 {
		return nil, fmt.Errorf("too many cards for one board: %d", n)
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	maxSD := cfg.MaxSuddenDeathRounds
	if maxSD <= 0 {
		maxSD = DefaultSuddenDeathRounds
	}

	return &Match{
		State:       NewGameState(id, cfg.Rules, hands),
		Controllers: [2]PlayerController{p0, p1},
		Logger:      logger,
		ctx:         context.Background(),
		rng:         rng,
		noShuffle:   cfg.NoShuffle,
		maxRounds:   1 + maxSD,
		elements:    cfg.Elements,
	}, nil
}

// Rand returns the match's random source. Controllers created alongside the
// match may share it to keep a seeded match reproducible.
func (m *Match) Rand() *rand.Rand {
	return m.rng
}

// Run plays the match to completion. Returns the winner (Player, Opponent,
// or NoOwner for a draw).
func (m *Match) Run(ctx context.Context) (Owner, error) {
	m.ctx = ctx
	gs := m.State
	if gs.Round == 0 {
		m.Start()
	}

	for !gs.Over {
		if err := ctx.Err(); err != nil {
			return NoOwner, err
		}
		if err := m.runTurn(); err != nil {
			return NoOwner, err
		}
	}
	return gs.Winner, nil
}

// Start logs the match start and opens the first round. Run calls it when
// needed; callers driving the match through Play call it themselves.
func (m *Match) Start() {
	first := m.pickFirst()
	m.log(log.NewMatchStartEvent(m.State.ID, int(first)))
	m.startRound(first)
}

func (m *Match) pickFirst() Owner {
	if m.noShuffle {
		return Player
	}
	return Owner(m.rng.Intn(2))
}

// startRound resets the board, scores and element board and gives the move
// to first.
func (m *Match) startRound(first Owner) {
	gs := m.State
	gs.Round++
	gs.TurnCount = 0
	gs.Turn = first
	gs.Board.Clear()
	for p := range gs.Hands {
		gs.Scores[p] = len(gs.Hands[p])
	}

	gs.Elements = nil
	if gs.Rules.Elemental {
		if gs.Round == 1 && m.elements != nil {
			eb := *m.elements
			gs.Elements = &eb
		} else {
			gs.Elements = NewElementBoard(m.rng)
		}
	}

	m.log(log.NewRoundStartEvent(gs.Round, int(first), gs.Elements.String()))
}

// runTurn asks the turn player for a move and plays it, re-prompting after
// an illegal move.
func (m *Match) runTurn() error {
	gs := m.State
	gs.TurnCount++
	player := gs.Turn
	m.log(log.NewTurnEvent(gs.Round, gs.TurnCount, int(player)))

	var lastErr error
	for attempt := 0; attempt < maxMoveAttempts; attempt++ {
		mv, err := m.Controllers[player].ChooseMove(m.ctx, gs, player)
		if err != nil {
			return fmt.Errorf("%s choose move: %w", player, err)
		}
		if _, err := m.Play(mv); err != nil {
			if !IsIllegalMove(err) {
				return err
			}
			lastErr = err
			m.log(log.NewRejectedEvent(gs.Round, gs.TurnCount, int(player), err.Error()))
			continue
		}
		return nil
	}
	return fmt.Errorf("%s made %d illegal moves: %w", player, maxMoveAttempts, lastErr)
}

// Play places the turn player's card and applies the result: the Same or
// Plus list first, then direct captures, then each Combo wave. The turn
// passes, or the round ends when either hand is empty.
func (m *Match) Play(mv Move) (*Result, error) {
	gs := m.State
	if gs.Over {
		return nil, fmt.Errorf("match %s is over", gs.ID)
	}
	if gs.Round == 0 {
		return nil, fmt.Errorf("match %s has not started", gs.ID)
	}
	player := gs.Turn
	hand := gs.Hand(player)
	if err := gs.Board.Check(*hand, mv.HandIndex, mv.Position); err != nil {
		return nil, err
	}

	card := (*hand)[mv.HandIndex]
	res := Resolve(card, mv.Position, &gs.Board, gs.Elements, gs.Rules)
	if _, err := gs.Board.Place(hand, mv.HandIndex, mv.Position); err != nil {
		return nil, err
	}
	m.log(log.NewPlaceEvent(gs.Round, gs.TurnCount, int(player), card.Name, mv.Position))

	if res.IsSame() {
		m.apply(log.EventSame, card, res.Same())
	}
	if res.IsPlus() {
		m.apply(log.EventPlus, card, res.Plus())
	}
	if res.HasCapture() {
		m.apply(log.EventCapture, card, res.Captured())
	}
	for res.HasCombo() {
		m.apply(log.EventCombo, card, res.NextCombo())
	}
	m.log(log.NewScoreEvent(gs.Round, gs.TurnCount, gs.Scores[Player], gs.Scores[Opponent]))

	if len(gs.Hands[Player]) == 0 || len(gs.Hands[Opponent]) == 0 {
		m.endRound()
	} else {
		gs.Turn = player.Other()
	}
	return res, nil
}

// apply flips every card in list not already owned by the source card's
// owner, moving one point per flip.
func (m *Match) apply(t log.EventType, source *Card, list []*Card) {
	gs := m.State
	owner := source.Owner
	var flipped []*Card
	for _, c := range list {
		if c.Owner == owner {
			continue
		}
		c.Owner = owner
		gs.Scores[owner]++
		gs.Scores[owner.Other()]--
		flipped = append(flipped, c)
	}
	if len(flipped) == 0 {
		return
	}

	names := make([]string, len(flipped))
	for i, c := range flipped {
		names[i] = c.Name
	}
	m.log(log.NewWaveEvent(gs.Round, gs.TurnCount, int(owner), t, source.Name, names))
	for _, c := range flipped {
		m.log(log.NewFlipEvent(gs.Round, gs.TurnCount, int(owner), c.Name, c.Position))
	}
}

// endRound decides the round: a win, sudden death, or a draw.
func (m *Match) endRound() {
	gs := m.State
	p, o := gs.Scores[Player], gs.Scores[Opponent]

	if winner := gs.Leader(); winner != NoOwner {
		gs.Over = true
		gs.Winner = winner
		gs.Result = fmt.Sprintf("%s wins %d-%d", winner, max(p, o), min(p, o))
		m.log(log.NewWinEvent(gs.Round, gs.TurnCount, int(winner), p, o))
		return
	}

	if gs.Rules.SuddenDeath && gs.Round < m.maxRounds {
		m.log(log.NewSuddenDeathEvent(gs.Round + 1))
		m.suddenDeath()
		return
	}

	gs.Over = true
	gs.Winner = NoOwner
	gs.Result = fmt.Sprintf("Draw %d-%d", p, o)
	m.log(log.NewDrawEvent(gs.Round, gs.TurnCount, p))
}

// suddenDeath rebuilds both hands from the cards each side now owns,
// walking the dealt cards in order and alternating sides.
func (m *Match) suddenDeath() {
	gs := m.State
	gs.Hands = [2]Hand{}
	n := max(len(gs.dealt[Player]), len(gs.dealt[Opponent]))
	for i := 0; i < n; i++ {
		for _, side := range gs.dealt {
			if i < len(side) {
				c := side[i]
				c.Position = -1
				gs.Hands[c.Owner] = append(gs.Hands[c.Owner], c)
			}
		}
	}
	m.startRound(m.pickFirst())
}

func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
	// Notify controllers (ignore errors for notifications)
	for _, c := range m.Controllers {
		if c != nil {
			_ = c.Notify(m.ctx, event)
		}
	}
}
