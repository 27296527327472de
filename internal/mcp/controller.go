package mcp

import (
	"context"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
	triadnet "github.com/peterkuimelis/triad/internal/net"
)

// MCPController implements game.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     game.Owner
	session    *GameSession
	responseCh chan game.Move

	// lastError is attached to the next decision after a rejected move.
	lastError string
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player game.Owner, session *GameSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan game.Move),
	}
}

// ChooseMove implements game.PlayerController.
func (c *MCPController) ChooseMove(ctx context.Context, state *game.GameState, player game.Owner) (game.Move, error) {
	view := state.View(c.player)
	pending := &PendingDecision{
		Type:   DecisionChooseMove,
		Player: c.player,
		State:  &view,
		Error:  c.lastError,
	}
	c.lastError = ""

	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return game.Move{}, ctx.Err()
	}

	select {
	case mv := <-c.responseCh:
		return mv, nil
	case <-ctx.Done():
		return game.Move{}, ctx.Err()
	}
}

// Notify implements game.PlayerController. It records rejections of the
// agent's moves and queues the event for the next tool response.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	if event.Type == log.EventRejected && game.Owner(event.Player) == c.player {
		c.lastError = event.Details
	}
	c.session.appendEvent(*triadnet.NewEventView(event))
	return nil
}
