// Package arena runs the prediction engine against scripted opponents,
// for benchmarking difficulty tiers and exercising the full
// predict/observe/persist cycle outside a live host.
package arena

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

// Opponent is a scripted player the engine predicts against.
type Opponent interface {
	Name() string
	// Move picks the opponent's throw given the history so far. The context
	// is from the opponent's perspective: PlayerMoves are its own past
	// throws, AIMoves the engine's.
	Move(ctx *engine.Context) engine.Move
}

// MatchConfig configures one engine-vs-script match.
type MatchConfig struct {
	ProfileID  string
	Difficulty engine.Difficulty
	Rounds     int
	Seed       int64 // 0 = nondeterministic
}

// MatchResult tallies a finished match from the engine's perspective.
type MatchResult struct {
	Opponent string        `json:"opponent"`
	Rounds   int           `json:"rounds"`
	Wins     int           `json:"wins"`
	Losses   int           `json:"losses"`
	Ties     int           `json:"ties"`
	Elapsed  time.Duration `json:"elapsed"`
}

// WinRate is the engine's wins over all rounds.
func (r *MatchResult) WinRate() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Rounds)
}

// RunMatch plays a full match between a fresh session and the opponent.
// Pass a nil store to skip persistence.
func RunMatch(ctx context.Context, cfg MatchConfig, opp Opponent, store engine.ModelStore, log zerolog.Logger) (*MatchResult, error) {
	if cfg.Rounds <= 0 {
		return nil, fmt.Errorf("match rounds must be positive, got %d", cfg.Rounds)
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = engine.DifficultyNormal
	}
	if cfg.ProfileID == "" {
		cfg.ProfileID = "arena"
	}

	var rng func() float64
	if cfg.Seed != 0 {
		r := rand.New(rand.NewSource(cfg.Seed))
		rng = r.Float64
	}

	session := engine.NewSession(engine.DefaultConfig(), store, cfg.ProfileID, log)
	defer session.Close()
	session.SetDifficulty(cfg.Difficulty)

	history := &engine.Context{Rand: rng}
	result := &MatchResult{Opponent: opp.Name(), Rounds: cfg.Rounds}
	start := time.Now()

	for i := 0; i < cfg.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		aiMove, _ := session.Predict(history)
		oppMove := opp.Move(history)

		switch engine.OutcomeOf(oppMove, aiMove) {
		case engine.Win:
			result.Losses++
		case engine.Lose:
			result.Wins++
		default:
			result.Ties++
		}

		// Observe against the pre-round history the prediction saw, then
		// append the completed round.
		session.Observe(history, oppMove)
		history.Record(oppMove, aiMove)
	}

	result.Elapsed = time.Since(start)
	log.Info().
		Str("opponent", opp.Name()).
		Str("difficulty", string(cfg.Difficulty)).
		Int("rounds", result.Rounds).
		Int("wins", result.Wins).
		Int("losses", result.Losses).
		Int("ties", result.Ties).
		Msg("Match finished")
	return result, nil
}
