package engine

import (
	"math"
	"testing"
)

// stubExpert returns a fixed distribution and counts calls, for exercising
// the mixer's caching contract.
type stubExpert struct {
	label        string
	dist         Distribution
	predictCalls int
	updateCalls  int
}

func (e *stubExpert) Kind() string  { return e.label }
func (e *stubExpert) Label() string { return e.label }

func (e *stubExpert) Predict(*Context) Distribution {
	e.predictCalls++
	return e.dist
}

func (e *stubExpert) Update(*Context, Move) {
	e.updateCalls++
}

func stubMixer(dists ...Distribution) (*HedgeMixer, []*stubExpert) {
	stubs := make([]*stubExpert, len(dists))
	experts := make([]Expert, len(dists))
	for i, d := range dists {
		stubs[i] = &stubExpert{label: string(rune('a' + i)), dist: d}
		experts[i] = stubs[i]
	}
	return NewHedgeMixer(DefaultConfig(), experts), stubs
}

func TestHedgeMixer_PredictIsWeightedCombination(t *testing.T) {
	m, _ := stubMixer(
		Distribution{1, 0, 0},
		Distribution{0, 1, 0},
	)
	d := m.Predict(&Context{})
	// Equal weights: halfway between the two experts.
	want := Distribution{0.5, 0.5, 0}
	for i := range d {
		if math.Abs(d[i]-want[i]) > 1e-9 {
			t.Fatalf("Predict = %v, want %v", d, want)
		}
	}
}

func TestHedgeMixer_UpdateMovesWeightsByLoss(t *testing.T) {
	m, _ := stubMixer(
		Distribution{1, 0, 0}, // nails rock: loss ~0
		Distribution{0, 1, 0}, // misses rock entirely: loss ~1
	)
	ctx := &Context{}
	m.Predict(ctx)
	before := m.Weights()
	m.Update(ctx, Rock)
	after := m.Weights()

	if after[0] < before[0] {
		t.Errorf("zero-loss expert weight decreased: %v -> %v", before[0], after[0])
	}
	if after[1] > before[1] {
		t.Errorf("full-loss expert weight increased: %v -> %v", before[1], after[1])
	}
	if after[0] <= after[1] {
		t.Errorf("expected zero-loss expert to dominate: %v", after)
	}
}

func TestHedgeMixer_UpdateReusesCachedPredictions(t *testing.T) {
	m, stubs := stubMixer(Distribution{1, 0, 0}, Uniform())
	ctx := &Context{}
	m.Predict(ctx)
	m.Update(ctx, Rock)

	for _, s := range stubs {
		if s.predictCalls != 1 {
			t.Errorf("%s: predict called %d times, want 1 (cached)", s.label, s.predictCalls)
		}
		if s.updateCalls != 1 {
			t.Errorf("%s: update forwarded %d times, want 1", s.label, s.updateCalls)
		}
	}
}

func TestHedgeMixer_UpdateWithoutPredictComputesFresh(t *testing.T) {
	m, stubs := stubMixer(Distribution{1, 0, 0})
	m.Update(&Context{}, Rock)
	if stubs[0].predictCalls != 1 {
		t.Errorf("predict called %d times, want 1 (fresh compute)", stubs[0].predictCalls)
	}
}

func TestHedgeMixer_WeightsStayPositiveOverLongRun(t *testing.T) {
	cfg := DefaultConfig()
	m := newDefaultMixer(cfg)
	ctx := &Context{Rand: func() float64 { return 0.5 }}
	for i := 0; i < 2000; i++ {
		m.Predict(ctx)
		m.Update(ctx, Move(i%NumMoves))
		ctx.Record(Move(i%NumMoves), Move((i+1)%NumMoves))
	}
	for i, w := range m.Weights() {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			t.Fatalf("weight %d degenerated to %v", i, w)
		}
	}
}

func TestHedgeMixer_SetWeightsRejectsCorruptVectors(t *testing.T) {
	m, _ := stubMixer(Uniform(), Uniform())
	for _, bad := range [][]float64{
		{0.5},            // wrong length
		{1, -2},          // non-positive
		{1, math.NaN()},  // non-finite
		{1, math.Inf(1)}, // non-finite
	} {
		m.SetWeights(bad)
		for i, w := range m.Weights() {
			if w != 1.0 {
				t.Errorf("SetWeights(%v): weight %d = %v, want reset to 1", bad, i, w)
			}
		}
	}
}

func TestHedgeMixer_SnapshotNormalized(t *testing.T) {
	m := newDefaultMixer(DefaultConfig())
	ctx := repeatContext(Rock, 10)
	m.Predict(ctx)
	snap := m.Snapshot()

	if len(snap.Labels) != len(snap.Weights) || len(snap.Labels) != len(snap.Dists) {
		t.Fatalf("snapshot shape mismatch: %d/%d/%d", len(snap.Labels), len(snap.Weights), len(snap.Dists))
	}
	sum := 0.0
	for _, w := range snap.Weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("snapshot weights sum to %v, want 1", sum)
	}
	for i, d := range snap.Dists {
		assertValidDistribution(t, d, snap.Labels[i])
	}
}
