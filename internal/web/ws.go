package web

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
	triadnet "github.com/peterkuimelis/triad/internal/net"
)

// moveTimeout bounds how long the browser may think about one move.
const moveTimeout = 10 * time.Minute

// wsController implements game.PlayerController over a websocket, using
// the same messages as the TCP protocol.
type wsController struct {
	conn   *websocket.Conn
	player game.Owner

	lastError string
}

func (w *wsController) ChooseMove(ctx context.Context, state *game.GameState, player game.Owner) (game.Move, error) {
	view := state.View(w.player)
	msg := triadnet.ServerMessage{Type: triadnet.MsgChooseMove, State: &view, Error: w.lastError}
	w.lastError = ""
	if err := wsjson.Write(ctx, w.conn, msg); err != nil {
		return game.Move{}, fmt.Errorf("send choose_move: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, moveTimeout)
	defer cancel()
	var resp triadnet.ClientMessage
	if err := wsjson.Read(ctx, w.conn, &resp); err != nil {
		return game.Move{}, fmt.Errorf("recv move: %w", err)
	}
	if resp.Type != triadnet.MsgMove || resp.Move == nil {
		return game.Move{}, fmt.Errorf("expected a move, got %q", resp.Type)
	}
	return *resp.Move, nil
}

func (w *wsController) Notify(ctx context.Context, event log.GameEvent) error {
	if event.Type == log.EventRejected && game.Owner(event.Player) == w.player {
		w.lastError = event.Details
	}
	return wsjson.Write(ctx, w.conn, triadnet.ServerMessage{Type: triadnet.MsgNotify, Event: triadnet.NewEventView(event)})
}

// handleWebSocket plays one match between the browser (P1) and an AI. The
// browser opens with a join message that may pick the AI.
func (s *Server) handleWebSocket(c *gin.Context) {
	wsConn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		klog.Errorf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := c.Request.Context()

	var join triadnet.ClientMessage
	if err := wsjson.Read(ctx, wsConn, &join); err != nil {
		klog.Errorf("WebSocket read join: %v", err)
		return
	}
	if join.Type != triadnet.MsgJoin {
		wsConn.Close(websocket.StatusPolicyViolation, "expected join message")
		return
	}

	kindName := join.AI
	if kindName == "" {
		kindName = string(s.opts.Opponent)
	}
	kind, err := ai.ParseKind(kindName)
	if err != nil {
		wsConn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}
	opponent, err := ai.NewController(kind, nil)
	if err != nil {
		wsConn.Close(websocket.StatusInternalError, err.Error())
		return
	}

	human := &wsController{conn: wsConn, player: game.Player}
	id := uuid.NewString()
	match, err := game.NewMatch(game.MatchConfig{
		ID:                   id,
		Rules:                s.opts.Rules,
		Catalog:              s.opts.Catalog,
		MaxSuddenDeathRounds: s.opts.MaxSuddenDeathRounds,
	}, human, opponent)
	if err != nil {
		wsConn.Close(websocket.StatusInternalError, err.Error())
		return
	}

	klog.Infof("Match %s: %q vs %s AI", id, join.Name, kind)
	winner, err := match.Run(ctx)
	if err != nil {
		klog.Errorf("Match %s: %v", id, err)
		wsConn.Close(websocket.StatusInternalError, "match error")
		return
	}
	klog.Infof("Match %s: %s", id, match.State.Result)

	view := match.State.View(game.Player)
	_ = wsjson.Write(ctx, wsConn, triadnet.ServerMessage{
		Type:   triadnet.MsgGameOver,
		State:  &view,
		Winner: winner,
		Result: match.State.Result,
	})
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}
