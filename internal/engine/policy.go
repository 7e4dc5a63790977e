package engine

import (
	"fmt"
	"math"
)

// Difficulty selects how sharply the engine exploits its prediction.
type Difficulty string

const (
	// DifficultyFair ignores the prediction entirely and plays uniform
	// random, used during training and low-signal periods.
	DifficultyFair Difficulty = "fair"
	// DifficultyNormal sharpens the prediction moderately and keeps a small
	// chance of a random move so the AI never feels infallible.
	DifficultyNormal Difficulty = "normal"
	// DifficultyRuthless sharpens the prediction hard and always counters.
	DifficultyRuthless Difficulty = "ruthless"
)

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyFair, DifficultyNormal, DifficultyRuthless:
		return Difficulty(s), nil
	}
	return DifficultyNormal, fmt.Errorf("unknown difficulty %q", s)
}

// logGuard keeps the temperature sharpening away from log(0).
const logGuard = 1e-9

// chooseMove maps the blended prediction to one concrete AI move. A
// non-finite or degenerate prediction falls back to a uniform-random move
// rather than propagating.
func chooseMove(cfg Config, predicted Distribution, diff Difficulty, ctx *Context) Move {
	if !predicted.finite() {
		return ctx.uniformMove()
	}
	sum := predicted[Rock] + predicted[Paper] + predicted[Scissors]
	if sum <= 0 {
		return ctx.uniformMove()
	}

	switch diff {
	case DifficultyFair:
		return ctx.uniformMove()
	case DifficultyRuthless:
		return sharpenAndCounter(predicted, cfg.RuthlessTemperature)
	default:
		if ctx.rand() < cfg.NormalOverrideChance {
			return ctx.uniformMove()
		}
		return sharpenAndCounter(predicted, cfg.NormalTemperature)
	}
}

// sharpenAndCounter applies softmax with temperature over the
// log-probabilities (equivalently raises each probability to the
// temperature power), takes the argmax player move, and returns its
// counter. Exact ties resolve rock over paper over scissors.
func sharpenAndCounter(predicted Distribution, temperature float64) Move {
	var sharpened Distribution
	for i, p := range predicted {
		sharpened[i] = math.Exp(temperature * math.Log(math.Max(logGuard, p)))
	}
	return sharpened.Normalize().ArgMax().Counter()
}
