// Command rpsmatch runs the prediction engine against scripted opponents
// and reports win rates per difficulty tier.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/arena"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

var allOpponents = []string{
	"constant-rock", "constant-paper", "constant-scissors",
	"cycle", "random", "wsls", "mirror",
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		opponents  string
		difficulty string
		rounds     int
		seed       int64
		jsonOut    bool
	)
	flag.StringVar(&opponents, "opponents", "all", "Comma-separated opponent names, or 'all'")
	flag.StringVar(&difficulty, "difficulty", "ruthless", "Engine difficulty (fair, normal, ruthless)")
	flag.IntVar(&rounds, "rounds", 500, "Rounds per match")
	flag.Int64Var(&seed, "seed", 0, "Deterministic seed (0 = random)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	diff, err := engine.ParseDifficulty(difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid difficulty")
	}

	names := allOpponents
	if opponents != "all" {
		names = strings.Split(opponents, ",")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	if seed != 0 {
		engine.SeedRng(seed)
	}

	var results []*arena.MatchResult
	for _, name := range names {
		opp, err := arena.NewOpponent(strings.TrimSpace(name), seed)
		if err != nil {
			log.Fatal().Err(err).Msg("Unknown opponent")
		}
		cfg := arena.MatchConfig{
			ProfileID:  "rpsmatch-" + opp.Name(),
			Difficulty: diff,
			Rounds:     rounds,
			Seed:       seed,
		}
		result, err := arena.RunMatch(ctx, cfg, opp, nil, log.Logger)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Fatal().Err(err).Msg("Match failed")
		}
		results = append(results, result)
	}

	if jsonOut {
		json.NewEncoder(os.Stdout).Encode(results)
		return
	}

	fmt.Printf("%-18s %8s %8s %8s %8s %9s\n", "opponent", "rounds", "wins", "losses", "ties", "win rate")
	for _, r := range results {
		fmt.Printf("%-18s %8d %8d %8d %8d %8.1f%%\n",
			r.Opponent, r.Rounds, r.Wins, r.Losses, r.Ties, r.WinRate()*100)
	}
}
