package net

import (
	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
)

// Message types for the JSON protocol over TCP.
const (
	MsgNotify     = "notify"
	MsgChooseMove = "choose_move"
	MsgGameOver   = "game_over"
	MsgJoin       = "join"
	MsgMove       = "move"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_move" and "game_over"
	State *game.StateView `json:"state,omitempty"`

	// For "choose_move" after a rejected move
	Error string `json:"error,omitempty"`

	// For "game_over"
	Winner game.Owner `json:"winner"`
	Result string     `json:"result,omitempty"`
}

// EventView is a simplified match event for the client.
type EventView struct {
	Round    int    `json:"round"`
	Turn     int    `json:"turn"`
	Player   int    `json:"player"`
	Type     string `json:"type"`
	Card     string `json:"card,omitempty"`
	Position int    `json:"position"`
	Details  string `json:"details"`
}

// NewEventView converts a logged event to its wire form.
func NewEventView(e log.GameEvent) *EventView {
	return &EventView{
		Round:    e.Round,
		Turn:     e.Turn,
		Player:   e.Player,
		Type:     e.Type.String(),
		Card:     e.Card,
		Position: e.Position,
		Details:  e.Details,
	}
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "move"
	Move *game.Move `json:"move,omitempty"`

	// For "join" (initial handshake). AI picks the opponent strategy when
	// the server plays the other side.
	Name string `json:"name,omitempty"`
	AI   string `json:"ai,omitempty"`
}
