package arena

import (
	"fmt"
	"math/rand"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

// NewOpponent builds a scripted opponent by name. Supported names:
// constant-rock, constant-paper, constant-scissors, cycle, random, wsls,
// mirror.
func NewOpponent(name string, seed int64) (Opponent, error) {
	rng := rand.New(rand.NewSource(seed))
	if seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	switch name {
	case "constant-rock":
		return &constantOpponent{move: engine.Rock}, nil
	case "constant-paper":
		return &constantOpponent{move: engine.Paper}, nil
	case "constant-scissors":
		return &constantOpponent{move: engine.Scissors}, nil
	case "cycle":
		return &cycleOpponent{pattern: []engine.Move{engine.Rock, engine.Paper, engine.Scissors}}, nil
	case "random":
		return &randomOpponent{rng: rng}, nil
	case "wsls":
		return &wslsOpponent{rng: rng}, nil
	case "mirror":
		return &mirrorOpponent{rng: rng}, nil
	}
	return nil, fmt.Errorf("unknown opponent %q", name)
}

// constantOpponent always throws the same move.
type constantOpponent struct {
	move engine.Move
}

func (o *constantOpponent) Name() string { return "constant-" + o.move.String() }

func (o *constantOpponent) Move(*engine.Context) engine.Move { return o.move }

// cycleOpponent walks a fixed pattern.
type cycleOpponent struct {
	pattern []engine.Move
}

func (o *cycleOpponent) Name() string { return "cycle" }

func (o *cycleOpponent) Move(ctx *engine.Context) engine.Move {
	return o.pattern[ctx.Rounds()%len(o.pattern)]
}

// randomOpponent plays uniform random, the unexploitable baseline.
type randomOpponent struct {
	rng *rand.Rand
}

func (o *randomOpponent) Name() string { return "random" }

func (o *randomOpponent) Move(*engine.Context) engine.Move {
	return engine.Move(o.rng.Intn(engine.NumMoves))
}

// wslsOpponent repeats after a win or tie and rotates forward after a loss,
// the classic human win-stay/lose-shift bias.
type wslsOpponent struct {
	rng *rand.Rand
}

func (o *wslsOpponent) Name() string { return "wsls" }

func (o *wslsOpponent) Move(ctx *engine.Context) engine.Move {
	n := ctx.Rounds()
	if n == 0 {
		return engine.Move(o.rng.Intn(engine.NumMoves))
	}
	last := ctx.PlayerMoves[n-1]
	if ctx.Outcomes[n-1] == engine.Lose {
		return (last + 1) % engine.NumMoves
	}
	return last
}

// mirrorOpponent copies the engine's previous throw, the bait-response
// pattern the bait expert exists to catch.
type mirrorOpponent struct {
	rng *rand.Rand
}

func (o *mirrorOpponent) Name() string { return "mirror" }

func (o *mirrorOpponent) Move(ctx *engine.Context) engine.Move {
	n := ctx.Rounds()
	if n == 0 {
		return engine.Move(o.rng.Intn(engine.NumMoves))
	}
	return ctx.AIMoves[n-1]
}
