package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
)

// ErrQuit is returned by RunREPL when the user quits.
var ErrQuit = errors.New("quit")

const cellWidth = 7

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn   net.Conn
	player game.Owner
	in     *bufio.Reader
	out    io.Writer

	// Auto, when set, answers every prompt with this strategy instead of
	// reading the terminal.
	Auto ai.Kind
	rng  *rand.Rand

	result string
}

// NewClient wraps a connection to the server. Input is read from in and the
// board is drawn to out.
func NewClient(conn net.Conn, player game.Owner, in io.Reader, out io.Writer) *Client {
	return &Client{
		conn:   conn,
		player: player,
		in:     bufio.NewReader(in),
		out:    out,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Connect connects to a server, sends the join message, and runs the REPL.
func Connect(ctx context.Context, addr, name string, auto ai.Kind) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if err := Join(conn, name); err != nil {
		return err
	}
	fmt.Println("Connected! Waiting for game to start...")

	client := NewClient(conn, game.Opponent, os.Stdin, os.Stdout)
	client.Auto = auto
	return client.RunREPL(ctx)
}

// Join sends the join handshake.
func Join(conn net.Conn, name string) error {
	if err := json.NewEncoder(conn).Encode(ClientMessage{Type: MsgJoin, Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	return nil
}

// Result returns the final result line once the match is over.
func (c *Client) Result() string {
	return c.result
}

// RunREPL reads server messages and handles them until the match is over.
func (c *Client) RunREPL(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseMove:
			if msg.State == nil {
				return fmt.Errorf("choose_move without state")
			}
			c.player = msg.State.You
			c.renderState(msg.State)
			if msg.Error != "" {
				fmt.Fprintf(c.out, "Rejected: %s\n", msg.Error)
			}
			mv, err := c.chooseMove(msg.State)
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgMove, Move: &mv}); err != nil {
				return fmt.Errorf("send move: %w", err)
			}

		case MsgGameOver:
			if msg.State != nil {
				c.renderState(msg.State)
			}
			c.result = msg.Result
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) chooseMove(sv *game.StateView) (game.Move, error) {
	if c.Auto != "" {
		mv, err := ai.DecideView(c.Auto, *sv, c.rng)
		if err != nil {
			return game.Move{}, fmt.Errorf("auto move: %w", err)
		}
		fmt.Fprintf(c.out, "> %d %d\n", mv.HandIndex+1, mv.Position+1)
		return mv, nil
	}
	return c.readMove(len(sv.Hand))
}

// readMove reads "<card> <slot>", both 1-based.
func (c *Client) readMove(handSize int) (game.Move, error) {
	for {
		fmt.Fprintf(c.out, "Play card (1-%d) on slot (1-9), or q to quit\n> ", handSize)
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return game.Move{}, fmt.Errorf("read input: %w", err)
		}
		if line == "q" || line == "quit" {
			return game.Move{}, ErrQuit
		}

		parts := strings.Fields(line)
		if len(parts) != 2 {
			fmt.Fprintln(c.out, "Enter two numbers: card and slot")
			continue
		}
		card, err1 := strconv.Atoi(parts[0])
		slot, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || card < 1 || card > handSize || slot < 1 || slot > game.BoardSize {
			fmt.Fprintf(c.out, "Card must be 1-%d and slot 1-%d\n", handSize, game.BoardSize)
			continue
		}
		return game.Move{HandIndex: card - 1, Position: slot - 1}, nil
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	fmt.Fprintf(c.out, "R%d T%-2d %-11s| %s\n", ev.Round, ev.Turn, ev.Type, ev.Details)
}

func (c *Client) renderState(sv *game.StateView) {
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, RenderBoard(sv))

	turnInfo := fmt.Sprintf("Round %d, turn %d | You %d - %d Opponent",
		sv.Round, sv.Turn, sv.Scores[sv.You], sv.Scores[sv.You.Other()])
	if !sv.Over {
		if sv.ToMove == sv.You {
			turnInfo += " | Your turn"
		} else {
			turnInfo += " | Opponent's turn"
		}
	}
	fmt.Fprintln(c.out, turnInfo)

	if len(sv.OpponentHand) > 0 {
		fmt.Fprint(c.out, "Opponent: ")
		for _, cv := range sv.OpponentHand {
			fmt.Fprintf(c.out, "%s  ", cv.Card().DisplayString())
		}
		fmt.Fprintln(c.out)
	} else {
		fmt.Fprintf(c.out, "Opponent holds %d cards\n", sv.OpponentSize)
	}

	if len(sv.Hand) > 0 {
		fmt.Fprintf(c.out, "Hand: ")
		for i, cv := range sv.Hand {
			fmt.Fprintf(c.out, "[%d] %s  ", i+1, cv.Card().DisplayString())
		}
		fmt.Fprintln(c.out)
	}
}

// RenderBoard draws the 3x3 board. Cards show their four ranks around the
// owner; empty slots show their 1-based number and element.
func RenderBoard(sv *game.StateView) string {
	var sb strings.Builder
	rule := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", game.BoardRows) + "\n"
	sb.WriteString(rule)
	for row := 0; row < game.BoardRows; row++ {
		var lines [3]strings.Builder
		for l := range lines {
			lines[l].WriteString("|")
		}
		for col := 0; col < game.BoardRows; col++ {
			pos := row*game.BoardRows + col
			cell := renderCell(sv, pos)
			for l := range lines {
				lines[l].WriteString(cell[l])
				lines[l].WriteString("|")
			}
		}
		for l := range lines {
			sb.WriteString(lines[l].String())
			sb.WriteByte('\n')
		}
		sb.WriteString(rule)
	}
	return sb.String()
}

func renderCell(sv *game.StateView, pos int) [3]string {
	element := ""
	if sv.Elements != nil {
		element = sv.Elements[pos]
	}

	cv := sv.Board[pos]
	if cv == nil {
		return [3]string{
			center(""),
			center(strconv.Itoa(pos + 1)),
			center(element),
		}
	}
	owner := cv.Owner.String()
	if cv.Owner == sv.You {
		owner = "**"
	}
	return [3]string{
		center(game.RankSymbol(cv.Ranks[game.Top])),
		fmt.Sprintf(" %s %s %s", game.RankSymbol(cv.Ranks[game.Left]), owner, game.RankSymbol(cv.Ranks[game.Right])),
		center(game.RankSymbol(cv.Ranks[game.Bottom])),
	}
}

func center(s string) string {
	if len(s) >= cellWidth {
		return s[:cellWidth]
	}
	left := (cellWidth - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", cellWidth-len(s)-left)
}
