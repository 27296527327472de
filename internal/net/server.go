package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
)

// Server hosts a match. The host plays P1 from the local terminal (or an AI
// when Host is set); P2 is a TCP client, or an AI when Opponent is set.
type Server struct {
	Port   string
	Config game.MatchConfig

	Host     ai.Kind // empty: the host plays from the terminal
	Opponent ai.Kind // empty: wait for a client to join

	In  io.Reader // defaults to os.Stdin
	Out io.Writer // defaults to os.Stdout
}

// Run listens on Port and serves one match.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()
	return s.Serve(ctx, ln)
}

// Play runs a local match against the Opponent AI without listening.
func (s *Server) Play(ctx context.Context) error {
	if s.Opponent == "" {
		return fmt.Errorf("local play needs an opponent AI")
	}
	return s.Serve(ctx, nil)
}

// Serve runs one match, accepting the joiner from ln if P2 is remote.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	in := s.In
	if in == nil {
		in = os.Stdin
	}

	cfg := s.Config
	if cfg.Logger == nil {
		cfg.Logger = log.NewTextLogger(out)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var joinerCtrl game.PlayerController
	var remote *NetworkController
	if s.Opponent != "" {
		c, err := ai.NewController(s.Opponent, rng)
		if err != nil {
			return err
		}
		joinerCtrl = c
		fmt.Fprintf(out, "Opponent: %s AI\n", c.Kind())
	} else {
		fmt.Fprintf(out, "Waiting for opponent on %s...\n", ln.Addr())

		// Accept exactly one connection (the joiner)
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		defer conn.Close()

		var joinMsg ClientMessage
		if err := json.NewDecoder(conn).Decode(&joinMsg); err != nil {
			return fmt.Errorf("read join message: %w", err)
		}
		if joinMsg.Type != MsgJoin {
			return fmt.Errorf("expected join, got %q", joinMsg.Type)
		}
		name := joinMsg.Name
		if name == "" {
			name = conn.RemoteAddr().String()
		}
		fmt.Fprintf(out, "Opponent %s connected\n", name)

		remote = NewNetworkController(conn, game.Opponent)
		joinerCtrl = remote
	}

	errCh := make(chan error, 2)
	var hostCtrl game.PlayerController
	var local *NetworkController
	if s.Host != "" {
		c, err := ai.NewController(s.Host, rng)
		if err != nil {
			return err
		}
		hostCtrl = c
	} else {
		// The host's REPL talks to the match through a pipe, like a remote
		// client would.
		hostConn, hostServerConn := net.Pipe()
		defer hostConn.Close()
		defer hostServerConn.Close()
		local = NewNetworkController(hostServerConn, game.Player)
		hostCtrl = local

		go func() {
			client := NewClient(hostConn, game.Player, in, out)
			errCh <- client.RunREPL(ctx)
		}()
	}

	match, err := game.NewMatch(cfg, hostCtrl, joinerCtrl)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Match %s, rules: %s\n", match.State.ID, match.State.Rules)

	done := make(chan error, 1)
	go func() {
		_, err := match.Run(ctx)
		if err != nil {
			done <- fmt.Errorf("match error: %w", err)
			return
		}
		// Send game_over to both players
		if remote != nil {
			_ = remote.SendGameOver(match.State)
		}
		if local != nil {
			_ = local.SendGameOver(match.State)
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil || local == nil {
			return err
		}
		// Let the host's REPL print the result.
		return <-errCh
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
