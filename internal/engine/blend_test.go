package engine

import (
	"math"
	"testing"
	"time"
)

func TestComputeBlendWeights_NoHistoryIsRealtimeOnly(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	got := computeBlendWeights(cfg, 0, historyMeta{}, now)
	if got.Realtime != 1 || got.History != 0 {
		t.Errorf("no history: got %+v, want realtime=1 history=0", got)
	}

	// Zero rounds seen or no expert state also count as no history.
	got = computeBlendWeights(cfg, 0, historyMeta{hasState: true, updatedAt: now}, now)
	if got.Realtime != 1 || got.History != 0 {
		t.Errorf("zero rounds: got %+v, want realtime-only", got)
	}
	got = computeBlendWeights(cfg, 0, historyMeta{rounds: 5, updatedAt: now}, now)
	if got.Realtime != 1 || got.History != 0 {
		t.Errorf("no state: got %+v, want realtime-only", got)
	}
}

func TestComputeBlendWeights_RampsDownOverSession(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	meta := historyMeta{rounds: 50, updatedAt: now, hasState: true}

	early := computeBlendWeights(cfg, 0, meta, now)
	if math.Abs(early.History-0.6) > 1e-9 {
		t.Errorf("fresh session history weight = %v, want 0.6", early.History)
	}

	late := computeBlendWeights(cfg, cfg.BlendRampRounds, meta, now)
	if math.Abs(late.History-0.3) > 1e-9 {
		t.Errorf("ramped history weight = %v, want 0.3", late.History)
	}

	// Past the ramp the weight holds at the floor.
	later := computeBlendWeights(cfg, cfg.BlendRampRounds*10, meta, now)
	if math.Abs(later.History-late.History) > 1e-9 {
		t.Errorf("history weight kept moving past the ramp: %v", later.History)
	}
}

func TestComputeBlendWeights_StalenessDecay(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	stale := computeBlendWeights(cfg, 0, historyMeta{
		rounds:    50,
		updatedAt: now.Add(-24 * time.Hour),
		hasState:  true,
	}, now)
	if stale.History > 1e-9 {
		t.Errorf("day-old history weight = %v, want ~0", stale.History)
	}

	halfway := computeBlendWeights(cfg, 0, historyMeta{
		rounds:    50,
		updatedAt: now.Add(-cfg.StalenessDecay),
		hasState:  true,
	}, now)
	want := 0.6 * math.Exp(-1)
	if math.Abs(halfway.History-want) > 1e-9 {
		t.Errorf("decayed history weight = %v, want %v", halfway.History, want)
	}
}

func TestComputeBlendWeights_PairSumsToOne(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	for _, rounds := range []int{0, 1, 2, 3, 4, 100} {
		for _, age := range []time.Duration{0, time.Minute, time.Hour} {
			bw := computeBlendWeights(cfg, rounds, historyMeta{
				rounds:    10,
				updatedAt: now.Add(-age),
				hasState:  true,
			}, now)
			if math.Abs(bw.Realtime+bw.History-1) > 1e-9 {
				t.Errorf("rounds=%d age=%v: weights %+v do not sum to 1", rounds, age, bw)
			}
			if bw.History < 0 || bw.History > cfg.HistoryWeightCap+1e-9 {
				t.Errorf("rounds=%d age=%v: history weight %v out of range", rounds, age, bw.History)
			}
		}
	}
}

func TestBlendDistributions(t *testing.T) {
	bw := BlendWeights{Realtime: 0.75, History: 0.25}
	got := blendDistributions(bw, Distribution{1, 0, 0}, Distribution{0, 1, 0})
	want := Distribution{0.75, 0.25, 0}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("blend = %v, want %v", got, want)
		}
	}
}

func TestBlendDistributions_DegenerateFallsBackToUniform(t *testing.T) {
	bw := BlendWeights{Realtime: 1, History: 0}
	got := blendDistributions(bw, Distribution{}, Distribution{})
	if got != Uniform() {
		t.Errorf("degenerate blend = %v, want uniform", got)
	}
}
