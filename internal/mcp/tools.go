package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
	triadnet "github.com/peterkuimelis/triad/internal/net"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// matchConfig is the base configuration for new matches, set by main.
var matchConfig = game.MatchConfig{Rules: game.DefaultRules()}

// defaultOpponent is used when start_game names no opponent, set by main.
var defaultOpponent = string(ai.Balanced)

// port is the TCP port for a human opponent, set by main.
var port = "9999"

// SetMatchConfig sets the rules, catalog and seed for new matches.
func SetMatchConfig(cfg game.MatchConfig) {
	matchConfig = cfg
}

// SetDefaultOpponent sets the opponent used when start_game omits one.
func SetDefaultOpponent(opponent string) {
	defaultOpponent = opponent
}

// SetPort sets the TCP port for the human player connection.
func SetPort(p string) {
	port = p
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(placeCardTool(), handlePlaceCard)
	s.AddTool(previewMoveTool(), handlePreviewMove)
	s.AddTool(getGameStateTool(), handleGetGameState)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Triple Triad match. Returns the initial state and the first pending decision. "+
			"Board slots are numbered 0-8 left to right, top to bottom; card ranks are listed top, left, right, bottom. "+
			"With opponent 'human' the other player connects via `triad-cli join --addr localhost:<port>` and this call "+
			"blocks until they do."),
		mcp.WithNumber("agent_player", mcp.Required(), mcp.Description("Which side you play: 0 = P1, 1 = P2. The first mover is random.")),
		mcp.WithString("opponent", mcp.Description("random, offensive, defensive, balanced, or human")),
		mcp.WithNumber("seed", mcp.Description("RNG seed for a reproducible match (0 = random)")),
	)
}

func placeCardTool() mcp.Tool {
	return mcp.NewTool("place_card",
		mcp.WithDescription("Play a card from your hand onto an empty board slot. Returns the events up to your next decision."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index into your hand")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Board slot 0-8")),
	)
}

func previewMoveTool() mcp.Tool {
	return mcp.NewTool("preview_move",
		mcp.WithDescription("Show what a move would capture (Same, Plus, direct captures and Combo waves) without playing it. Read-only."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index into your hand")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Board slot 0-8")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current match state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	agentPlayer := request.GetInt("agent_player", -1)
	if agentPlayer != 0 && agentPlayer != 1 {
		return mcp.NewToolResultError("agent_player must be 0 or 1"), nil
	}
	opponent := strings.ToLower(strings.TrimSpace(request.GetString("opponent", defaultOpponent)))
	if opponent != OpponentHuman {
		if _, err := ai.ParseKind(opponent); err != nil {
			return mcp.NewToolResultErrorf("Invalid opponent: %v", err), nil
		}
	}

	cfg := matchConfig
	if seed := request.GetInt("seed", 0); seed != 0 {
		cfg.Seed = int64(seed)
	}

	sess, err := NewGameSession(SessionConfig{
		Match:       cfg,
		AgentPlayer: game.Owner(agentPlayer),
		Opponent:    opponent,
		Port:        port,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	activeSession = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	if opponent == OpponentHuman {
		resp.Port = port
	}
	if resp.GameOver {
		sess.Close()
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// moveArgs reads and range-checks hand_index and position.
func moveArgs(request mcp.CallToolRequest, sess *GameSession) (game.Move, *mcp.CallToolResult) {
	pending := sess.currentPending
	if pending == nil || pending.Type != DecisionChooseMove {
		return game.Move{}, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Player != sess.agentPlayer {
		return game.Move{}, mcp.NewToolResultError("Waiting for the opponent to move.")
	}

	mv := game.Move{
		HandIndex: request.GetInt("hand_index", -1),
		Position:  request.GetInt("position", -1),
	}
	if n := len(pending.State.Hand); mv.HandIndex < 0 || mv.HandIndex >= n {
		return mv, mcp.NewToolResultErrorf("Invalid hand_index %d. Must be 0-%d.", mv.HandIndex, n-1)
	}
	if mv.Position < 0 || mv.Position >= game.BoardSize {
		return mv, mcp.NewToolResultErrorf("Invalid position %d. Must be 0-%d.", mv.Position, game.BoardSize-1)
	}
	return mv, nil
}

func handlePlaceCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	sess := activeSession

	mv, errResult := moveArgs(request, sess)
	if errResult != nil {
		return errResult, nil
	}
	if pv := sess.currentPending.State.Board[mv.Position]; pv != nil {
		return mcp.NewToolResultErrorf("Position %d is occupied by %s.", mv.Position, pv.Name), nil
	}

	select {
	case sess.agentCtrl.responseCh <- mv:
	case <-ctx.Done():
		return mcp.NewToolResultErrorf("Cancelled: %v", ctx.Err()), nil
	}

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}

	if resp.GameOver {
		sess.Close()
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handlePreviewMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	sess := activeSession

	mv, errResult := moveArgs(request, sess)
	if errResult != nil {
		return errResult, nil
	}
	pv, err := sess.preview(mv)
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot preview: %v", err), nil
	}

	resp := &ToolResponse{
		Events:  []triadnet.EventView{},
		State:   sess.currentPending.State,
		Pending: sess.pendingView(sess.currentPending),
		Preview: pv,
		Winner:  game.NoOwner,
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	sess := activeSession
	events := sess.drainEvents()

	sess.mu.Lock()
	resp := &ToolResponse{
		Events:   events,
		GameOver: sess.gameOver,
		Winner:   sess.winner,
		Result:   sess.result,
	}
	sess.mu.Unlock()

	if sess.currentPending != nil {
		resp.State = sess.currentPending.State
		if !resp.GameOver {
			resp.Pending = sess.pendingView(sess.currentPending)
		}
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}
