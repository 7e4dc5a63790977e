package engine

import (
	"math"
	"testing"
)

func TestMove_Counter(t *testing.T) {
	cases := []struct {
		move, counter Move
	}{
		{Rock, Paper},
		{Paper, Scissors},
		{Scissors, Rock},
	}
	for _, c := range cases {
		if got := c.move.Counter(); got != c.counter {
			t.Errorf("%s.Counter() = %s, want %s", c.move, got, c.counter)
		}
		if !c.counter.Beats(c.move) {
			t.Errorf("%s should beat %s", c.counter, c.move)
		}
		if c.move.Beats(c.counter) {
			t.Errorf("%s should not beat %s", c.move, c.counter)
		}
	}
}

func TestOutcomeOf(t *testing.T) {
	if got := OutcomeOf(Rock, Scissors); got != Win {
		t.Errorf("rock vs scissors = %s, want win", got)
	}
	if got := OutcomeOf(Rock, Paper); got != Lose {
		t.Errorf("rock vs paper = %s, want lose", got)
	}
	if got := OutcomeOf(Paper, Paper); got != Tie {
		t.Errorf("paper vs paper = %s, want tie", got)
	}
}

func TestParseMove_RoundTrip(t *testing.T) {
	for m := Rock; m < NumMoves; m++ {
		parsed, err := ParseMove(m.String())
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("ParseMove(%q) = %s", m.String(), parsed)
		}
	}
	if _, err := ParseMove("lizard"); err == nil {
		t.Error("expected error for unknown move")
	}
}

func TestDistribution_NormalizeAllZero(t *testing.T) {
	got := Distribution{}.Normalize()
	if got != Uniform() {
		t.Errorf("normalizing zero distribution = %v, want uniform", got)
	}
}

func TestDistribution_NormalizeDropsBadComponents(t *testing.T) {
	got := Distribution{math.NaN(), 2, -1}.Normalize()
	want := Distribution{0, 1, 0}
	if got != want {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestDistribution_Normalize_SumsToOne(t *testing.T) {
	d := Distribution{0.2, 5, 1.3}.Normalize()
	sum := d[Rock] + d[Paper] + d[Scissors]
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("sum = %v, want 1", sum)
	}
}

func TestDistribution_ArgMax_TieBreak(t *testing.T) {
	// Exact ties resolve in rock, paper, scissors order.
	if got := (Distribution{0.4, 0.4, 0.2}).ArgMax(); got != Rock {
		t.Errorf("ArgMax = %s, want rock", got)
	}
	if got := (Distribution{0.2, 0.4, 0.4}).ArgMax(); got != Paper {
		t.Errorf("ArgMax = %s, want paper", got)
	}
}
