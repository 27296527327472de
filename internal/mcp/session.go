package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	stdnet "net"
	"sync"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
	triadnet "github.com/peterkuimelis/triad/internal/net"
)

// DecisionType identifies what kind of decision the match is waiting for.
type DecisionType string

const (
	DecisionChooseMove DecisionType = "choose_move"
	DecisionGameOver   DecisionType = "game_over"
)

// OpponentHuman selects a human opponent joining over TCP.
const OpponentHuman = "human"

// PendingDecision represents a decision the match is waiting for.
type PendingDecision struct {
	Type   DecisionType    `json:"type"`
	Player game.Owner      `json:"player"`
	State  *game.StateView `json:"state"`
	Error  string          `json:"error,omitempty"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []triadnet.EventView `json:"events"`
	State    *game.StateView      `json:"state,omitempty"`
	Pending  *PendingView         `json:"pending,omitempty"`
	Preview  *game.Preview        `json:"preview,omitempty"`
	GameOver bool                 `json:"game_over"`
	Winner   game.Owner           `json:"winner"`
	Result   string               `json:"result,omitempty"`
	Port     string               `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type      DecisionType `json:"type"`
	ForPlayer string       `json:"for_player"`
	Error     string       `json:"error,omitempty"`
}

// SessionConfig configures a new session.
type SessionConfig struct {
	Match       game.MatchConfig
	AgentPlayer game.Owner
	Opponent    string // an AI kind, or OpponentHuman
	Port        string // TCP port for a human opponent
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	match       *game.Match
	agentCtrl   *MCPController
	humanCtrl   *triadnet.NetworkController
	agentPlayer game.Owner
	cancel      context.CancelFunc

	listener  stdnet.Listener
	humanConn stdnet.Conn

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []triadnet.EventView
	gameOver bool
	winner   game.Owner
	result   string
}

// NewGameSession creates a session and starts the match in a goroutine.
// With a human opponent it first listens on cfg.Port and blocks until the
// human runs `triad-cli join`.
func NewGameSession(cfg SessionConfig) (*GameSession, error) {
	if cfg.AgentPlayer != game.Player && cfg.AgentPlayer != game.Opponent {
		return nil, fmt.Errorf("agent player must be 0 or 1, got %d", cfg.AgentPlayer)
	}

	sess := &GameSession{
		agentPlayer: cfg.AgentPlayer,
		pendingCh:   make(chan *PendingDecision, 1),
		winner:      game.NoOwner,
	}
	sess.agentCtrl = NewMCPController(cfg.AgentPlayer, sess)

	var other game.PlayerController
	if cfg.Opponent == OpponentHuman {
		ln, err := stdnet.Listen("tcp", ":"+cfg.Port)
		if err != nil {
			return nil, fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}
		// Accept one connection (blocks until the human joins)
		conn, err := ln.Accept()
		if err != nil {
			ln.Close()
			return nil, fmt.Errorf("accept: %w", err)
		}
		var joinMsg triadnet.ClientMessage
		if err := json.NewDecoder(conn).Decode(&joinMsg); err != nil {
			conn.Close()
			ln.Close()
			return nil, fmt.Errorf("read join message: %w", err)
		}
		sess.listener = ln
		sess.humanConn = conn
		sess.humanCtrl = triadnet.NewNetworkController(conn, cfg.AgentPlayer.Other())
		other = sess.humanCtrl
	} else {
		c, err := ai.NewController(ai.Kind(cfg.Opponent), nil)
		if err != nil {
			return nil, err
		}
		other = c
	}

	mcfg := cfg.Match
	if mcfg.Logger == nil {
		mcfg.Logger = log.NewMemoryLogger()
	}
	ctrls := [2]game.PlayerController{}
	ctrls[cfg.AgentPlayer] = sess.agentCtrl
	ctrls[cfg.AgentPlayer.Other()] = other

	match, err := game.NewMatch(mcfg, ctrls[0], ctrls[1])
	if err != nil {
		sess.closeHuman()
		return nil, err
	}
	sess.match = match

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	// Start the match in a goroutine
	go func() {
		winner, err := match.Run(ctx)
		result := match.State.Result
		if err != nil {
			result = fmt.Sprintf("error: %v", err)
		}

		if sess.humanCtrl != nil {
			_ = sess.humanCtrl.SendGameOver(match.State)
		}
		sess.closeHuman()

		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.result = result
		sess.mu.Unlock()

		// Notify the agent via the pending channel
		view := match.State.View(sess.agentPlayer)
		select {
		case sess.pendingCh <- &PendingDecision{Type: DecisionGameOver, Player: winner, State: &view}:
		case <-ctx.Done():
		}
	}()

	return sess, nil
}

// Close stops the match and releases the human connection.
func (s *GameSession) Close() {
	s.cancel()
	s.closeHuman()
}

func (s *GameSession) closeHuman() {
	if s.humanConn != nil {
		s.humanConn.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev triadnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []triadnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []triadnet.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the match,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending

	resp := &ToolResponse{
		Events: s.drainEvents(),
		State:  pending.State,
		Winner: game.NoOwner,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Pending = s.pendingView(pending)
	return resp, nil
}

func (s *GameSession) pendingView(p *PendingDecision) *PendingView {
	return &PendingView{
		Type:      p.Type,
		ForPlayer: s.playerLabel(p.Player),
		Error:     p.Error,
	}
}

// playerLabel returns "agent" or "opponent" for the given player.
func (s *GameSession) playerLabel(player game.Owner) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return "opponent"
}

// preview resolves a move against the pending state without playing it.
func (s *GameSession) preview(mv game.Move) (*game.Preview, error) {
	p := s.currentPending
	if p == nil || p.Type != DecisionChooseMove {
		return nil, fmt.Errorf("no move is pending")
	}
	return p.State.Preview(mv)
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
