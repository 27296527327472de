// Package bench plays AI-vs-AI matches on a worker pool and tallies the
// results.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sync"

	"github.com/peterkuimelis/triad/internal/ai"
	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
)

// Config describes a benchmark run.
type Config struct {
	Games    int
	Workers  int // 0 = runtime.NumCPU()
	Player   ai.Kind
	Opponent ai.Kind
	Rules    game.RuleConfig
	Catalog  *game.Catalog

	// Seed is the seed of game 0; game i uses Seed+i. 0 picks random seeds.
	Seed int64

	MaxSuddenDeathRounds int

	// Output, when set, receives one JSON line per finished game.
	Output io.Writer
}

// GameResult is the outcome of one game.
type GameResult struct {
	Index  int        `json:"index"`
	Seed   int64      `json:"seed"`
	Winner game.Owner `json:"winner"`
	Scores [2]int     `json:"scores"`
	Rounds int        `json:"rounds"`
	Result string     `json:"result"`
	Error  string     `json:"error,omitempty"`
}

// Report sums up a run.
type Report struct {
	Games  int
	Wins   [2]int
	Draws  int
	Rounds int // total rounds played, sudden death included
	Errors int
}

func (r Report) String() string {
	return fmt.Sprintf("%d games: P1 %d wins, P2 %d wins, %d draws, %d rounds, %d errors",
		r.Games, r.Wins[game.Player], r.Wins[game.Opponent], r.Draws, r.Rounds, r.Errors)
}

type task struct {
	index int
	seed  int64
}

// Run plays cfg.Games matches and returns the tally. It stops handing out
// games when ctx is cancelled.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Games <= 0 {
		return Report{}, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	for _, k := range []ai.Kind{cfg.Player, cfg.Opponent} {
		if _, err := ai.ParseKind(string(k)); err != nil {
			return Report{}, err
		}
	}
	if cfg.Catalog == nil {
		cat, err := game.DefaultCatalog()
		if err != nil {
			return Report{}, err
		}
		cfg.Catalog = cat
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seeds := rand.New(rand.NewSource(cfg.Seed))

	tasks := make(chan task, cfg.Games)
	results := make(chan GameResult, cfg.Games)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(ctx, cfg, tasks, results, &wg)
	}

	go func() {
		defer close(tasks)
		for i := 0; i < cfg.Games; i++ {
			seed := cfg.Seed + int64(i)
			if cfg.Seed == 0 {
				seed = seeds.Int63() | 1
			}
			select {
			case tasks <- task{index: i, seed: seed}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var rep Report
	var enc *json.Encoder
	if cfg.Output != nil {
		enc = json.NewEncoder(cfg.Output)
	}
	for res := range results {
		rep.Games++
		rep.Rounds += res.Rounds
		switch {
		case res.Error != "":
			rep.Errors++
		case res.Winner == game.NoOwner:
			rep.Draws++
		default:
			rep.Wins[res.Winner]++
		}
		if enc != nil {
			if err := enc.Encode(res); err != nil {
				return rep, fmt.Errorf("write result: %w", err)
			}
		}
	}
	return rep, ctx.Err()
}

func worker(ctx context.Context, cfg Config, tasks <-chan task, results chan<- GameResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for t := range tasks {
		results <- play(ctx, cfg, t)
	}
}

func play(ctx context.Context, cfg Config, t task) GameResult {
	res := GameResult{Index: t.index, Seed: t.seed, Winner: game.NoOwner}

	// Each game owns its RNG, so a seed replays the same game.
	rng := rand.New(rand.NewSource(t.seed))
	p0, err := ai.NewController(cfg.Player, rng)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	p1, err := ai.NewController(cfg.Opponent, rng)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	m, err := game.NewMatch(game.MatchConfig{
		Rules:                cfg.Rules,
		Catalog:              cfg.Catalog,
		Logger:               discard{},
		Seed:                 t.seed,
		MaxSuddenDeathRounds: cfg.MaxSuddenDeathRounds,
	}, p0, p1)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	winner, err := m.Run(ctx)
	res.Rounds = m.State.Round
	res.Scores = m.State.Scores
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Winner = winner
	res.Result = m.State.Result
	return res
}

// discard drops match events; a benchmark only needs the outcome.
type discard struct{}

func (discard) Log(log.GameEvent) {}
func (discard) Events() []log.GameEvent { return nil }
