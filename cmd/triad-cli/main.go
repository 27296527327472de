package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/bench"
	"github.com/peterkuimelis/triad/internal/config"
	triadnet "github.com/peterkuimelis/triad/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	cmd := os.Args[1]
	switch cmd {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "bench":
		err = runBench(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, triadnet.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  triad-cli host  [--port P] [--config FILE] [--auto]")
	fmt.Println("  triad-cli join  [--addr ADDR] [--name NAME] [--auto KIND]")
	fmt.Println("  triad-cli play  [--config FILE] [--ai KIND] [--auto]")
	fmt.Println("  triad-cli bench [--config FILE] [--games N] [--workers N] [--p1 KIND] [--p2 KIND] [--out FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a game server and play as P1")
	fmt.Println("  join    Connect to a game server and play as P2")
	fmt.Println("  play    Play against the AI in this terminal")
	fmt.Println("  bench   Play AI against AI and report the results")
	fmt.Println()
	fmt.Println("AI kinds: random, offensive, defensive, balanced")
}

func loadSettings(path string) (config.Settings, error) {
	s, err := config.Load(path)
	if err != nil {
		return s, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	port := fs.String("port", "9000", "TCP port to listen on")
	settingsFile := fs.String("config", "triad.yaml", "path to settings file")
	auto := fs.Bool("auto", false, "let the player AI play your cards")
	fs.Parse(args)

	s, err := loadSettings(*settingsFile)
	if err != nil {
		return err
	}
	cat, err := s.Catalog()
	if err != nil {
		return err
	}

	srv := &triadnet.Server{
		Port:   *port,
		Config: s.MatchConfig(cat),
	}
	if *auto {
		srv.Host, _ = s.Kinds()
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	name := fs.String("name", os.Getenv("USER"), "name shown to the host")
	auto := fs.String("auto", "", "let this AI kind play your cards")
	fs.Parse(args)

	var kind ai.Kind
	if *auto != "" {
		k, err := ai.ParseKind(*auto)
		if err != nil {
			return err
		}
		kind = k
	}
	return triadnet.Connect(ctx, *addr, *name, kind)
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	settingsFile := fs.String("config", "triad.yaml", "path to settings file")
	opponent := fs.String("ai", "", "opponent AI kind (overrides the settings file)")
	auto := fs.Bool("auto", false, "let the player AI play your cards")
	seed := fs.Int64("seed", 0, "RNG seed (overrides the settings file)")
	fs.Parse(args)

	s, err := loadSettings(*settingsFile)
	if err != nil {
		return err
	}
	if *opponent != "" {
		s.AI.Opponent = *opponent
	}
	if *seed != 0 {
		s.Seed = *seed
	}
	if err := s.Validate(); err != nil {
		return err
	}
	cat, err := s.Catalog()
	if err != nil {
		return err
	}

	playerKind, opponentKind := s.Kinds()
	srv := &triadnet.Server{
		Config:   s.MatchConfig(cat),
		Opponent: opponentKind,
	}
	if *auto {
		srv.Host = playerKind
	}
	return srv.Play(ctx)
}

func runBench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	settingsFile := fs.String("config", "triad.yaml", "path to settings file")
	games := fs.Int("games", 100, "number of games to play")
	workers := fs.Int("workers", 0, "number of workers (0 = one per CPU)")
	p1 := fs.String("p1", "", "P1 AI kind (overrides the settings file)")
	p2 := fs.String("p2", "", "P2 AI kind (overrides the settings file)")
	out := fs.String("out", "", "write one JSON line per game to this file")
	fs.Parse(args)

	s, err := loadSettings(*settingsFile)
	if err != nil {
		return err
	}
	if *p1 != "" {
		s.AI.Player = *p1
	}
	if *p2 != "" {
		s.AI.Opponent = *p2
	}
	if err := s.Validate(); err != nil {
		return err
	}
	cat, err := s.Catalog()
	if err != nil {
		return err
	}

	playerKind, opponentKind := s.Kinds()
	cfg := bench.Config{
		Games:                *games,
		Workers:              *workers,
		Player:               playerKind,
		Opponent:             opponentKind,
		Rules:                s.Rules,
		Catalog:              cat,
		Seed:                 s.Seed,
		MaxSuddenDeathRounds: s.SuddenDeathRounds,
	}
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		cfg.Output = f
	}

	fmt.Printf("%s vs %s, %d games, rules: %s\n", playerKind, opponentKind, *games, s.Rules)
	start := time.Now()
	rep, err := bench.Run(ctx, cfg)
	fmt.Printf("%s in %s\n", rep, time.Since(start).Round(time.Millisecond))
	return err
}
