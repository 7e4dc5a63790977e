// Package engine implements the adaptive opponent-prediction engine for
// repeated rock-paper-scissors: a bank of behavioral experts combined by
// multiplicative-weights online learning, blended across a session-scoped
// and a persisted horizon, and sharpened into a concrete counter-move by a
// difficulty policy.
package engine

import (
	"encoding/json"
	"fmt"
	"math"
)

// Move is one of the three throws.
type Move int

const (
	Rock Move = iota
	Paper
	Scissors

	// NumMoves is the size of the move alphabet.
	NumMoves = 3
)

var moveNames = [NumMoves]string{"rock", "paper", "scissors"}

func (m Move) String() string {
	if m < 0 || m >= NumMoves {
		return fmt.Sprintf("move(%d)", int(m))
	}
	return moveNames[m]
}

// ParseMove converts a move name to a Move.
func ParseMove(s string) (Move, error) {
	for i, name := range moveNames {
		if s == name {
			return Move(i), nil
		}
	}
	return Rock, fmt.Errorf("unknown move %q", s)
}

// Counter returns the move that beats m under the cyclic rule:
// paper beats rock, scissors beats paper, rock beats scissors.
func (m Move) Counter() Move {
	return (m + 1) % NumMoves
}

// Beats reports whether m defeats other.
func (m Move) Beats(other Move) bool {
	return other == (m+2)%NumMoves
}

// MarshalJSON encodes the move as its lowercase name.
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a lowercase move name.
func (m *Move) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMove(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Outcome is the result of one round from the predicted player's perspective.
type Outcome int

const (
	Win Outcome = iota
	Lose
	Tie
)

var outcomeNames = [3]string{"win", "lose", "tie"}

func (o Outcome) String() string {
	if o < 0 || o > Tie {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// ParseOutcome converts an outcome name to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for i, name := range outcomeNames {
		if s == name {
			return Outcome(i), nil
		}
	}
	return Tie, fmt.Errorf("unknown outcome %q", s)
}

// MarshalJSON encodes the outcome as its lowercase name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts a lowercase outcome name.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// OutcomeOf scores a round from the player's perspective.
func OutcomeOf(player, ai Move) Outcome {
	switch {
	case player == ai:
		return Tie
	case player.Beats(ai):
		return Win
	default:
		return Lose
	}
}

// Distribution is a probability triple over {rock, paper, scissors},
// indexed by Move.
type Distribution [NumMoves]float64

// Uniform returns the uniform distribution.
func Uniform() Distribution {
	return Distribution{1.0 / NumMoves, 1.0 / NumMoves, 1.0 / NumMoves}
}

// Normalize scales d to sum to 1. Negative and non-finite components are
// treated as zero; if nothing usable remains the result is uniform.
func (d Distribution) Normalize() Distribution {
	var out Distribution
	total := 0.0
	for i, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			continue
		}
		out[i] = v
		total += v
	}
	if total <= 0 {
		return Uniform()
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// ArgMax returns the move with the largest mass. Exact ties resolve to the
// first maximum in rock, paper, scissors order.
func (d Distribution) ArgMax() Move {
	best := Rock
	for m := Paper; m < NumMoves; m++ {
		if d[m] > d[best] {
			best = m
		}
	}
	return best
}

// Max returns the largest component.
func (d Distribution) Max() float64 {
	return d[d.ArgMax()]
}

func (d Distribution) finite() bool {
	for _, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
