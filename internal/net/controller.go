package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
)

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player game.Owner
	mu     sync.Mutex

	// lastError is sent with the next prompt after a rejected move.
	lastError string
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player game.Owner) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseMove implements game.PlayerController.
func (nc *NetworkController) ChooseMove(ctx context.Context, state *game.GameState, player game.Owner) (game.Move, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { nc.conn.Close() })
	defer stop()

	view := state.View(player)
	msg := ServerMessage{Type: MsgChooseMove, State: &view, Error: nc.lastError}
	nc.lastError = ""
	if err := nc.send(msg); err != nil {
		return game.Move{}, fmt.Errorf("send choose_move: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return game.Move{}, ctxErr
		}
		return game.Move{}, fmt.Errorf("recv move: %w", err)
	}
	if resp.Type != MsgMove || resp.Move == nil {
		return game.Move{}, fmt.Errorf("expected a move, got %q", resp.Type)
	}
	return *resp.Move, nil
}

// Notify implements game.PlayerController. A rejected move of this player
// is echoed with the next prompt as well.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	if event.Type == log.EventRejected && game.Owner(event.Player) == nc.player {
		nc.lastError = event.Details
	}
	return nc.send(ServerMessage{Type: MsgNotify, Event: NewEventView(event)})
}

// SendGameOver sends a game_over message with the final state to the client.
func (nc *NetworkController) SendGameOver(state *game.GameState) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	view := state.View(nc.player)
	err := nc.send(ServerMessage{
		Type:   MsgGameOver,
		State:  &view,
		Winner: state.Winner,
		Result: state.Result,
	})
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
