package engine

import "math"

// HedgeMixer combines the expert bank with multiplicative weights. Each
// expert starts at weight 1; after every revealed round an expert's weight
// is scaled by exp(-eta * loss), where loss grows with how little mass the
// expert put on the move the player actually made.
type HedgeMixer struct {
	eta       float64
	probFloor float64
	experts   []Expert
	weights   []float64
	// cached holds each expert's distribution from the most recent Predict,
	// so Update scores exactly the predictions that were acted on.
	cached []Distribution
}

// NewHedgeMixer builds a mixer over the given experts with unit weights.
func NewHedgeMixer(cfg Config, experts []Expert) *HedgeMixer {
	weights := make([]float64, len(experts))
	for i := range weights {
		weights[i] = 1.0
	}
	return &HedgeMixer{
		eta:       cfg.Eta,
		probFloor: cfg.ProbFloor,
		experts:   experts,
		weights:   weights,
	}
}

// newDefaultMixer builds a mixer over the canonical expert bank.
func newDefaultMixer(cfg Config) *HedgeMixer {
	return NewHedgeMixer(cfg, defaultBank(cfg))
}

// Predict returns the weight-normalized convex combination of the experts'
// predictions, caching the individual distributions for the next Update.
func (m *HedgeMixer) Predict(ctx *Context) Distribution {
	preds := make([]Distribution, len(m.experts))
	var combined Distribution
	for i, e := range m.experts {
		preds[i] = e.Predict(ctx)
		for j, p := range preds[i] {
			combined[j] += m.weights[i] * p
		}
	}
	m.cached = preds
	return combined.Normalize()
}

// Update scales every weight by its expert's loss on the revealed move and
// then forwards the observation to the experts. The cached predictions from
// the preceding Predict are reused; if no prediction was cached (an update
// with no move acted on) the expert predictions are computed fresh.
func (m *HedgeMixer) Update(ctx *Context, actual Move) {
	preds := m.cached
	if preds == nil {
		preds = make([]Distribution, len(m.experts))
		for i, e := range m.experts {
			preds[i] = e.Predict(ctx)
		}
	}
	m.cached = nil

	for i := range m.experts {
		loss := 1.0 - math.Max(m.probFloor, preds[i][actual])
		m.weights[i] *= math.Exp(-m.eta * loss)
	}
	m.rescaleWeights()

	for _, e := range m.experts {
		e.Update(ctx, actual)
	}
}

// rescaleWeights renormalizes the weight vector to mean 1. Hedge only cares
// about weight ratios, and without rescaling the exponential updates
// underflow to zero over a long session.
func (m *HedgeMixer) rescaleWeights() {
	total := 0.0
	for _, w := range m.weights {
		total += w
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		for i := range m.weights {
			m.weights[i] = 1.0
		}
		return
	}
	scale := float64(len(m.weights)) / total
	for i := range m.weights {
		m.weights[i] *= scale
	}
}

// MixerSnapshot is a read-only view of the mixer for inspection: normalized
// weights and each expert's distribution from the last Predict.
type MixerSnapshot struct {
	Labels  []string
	Weights []float64
	Dists   []Distribution
}

// Snapshot returns the current normalized weights and the per-expert
// distributions cached by the most recent Predict (uniform when none).
func (m *HedgeMixer) Snapshot() MixerSnapshot {
	snap := MixerSnapshot{
		Labels:  make([]string, len(m.experts)),
		Weights: normalizeWeights(m.weights),
		Dists:   make([]Distribution, len(m.experts)),
	}
	for i, e := range m.experts {
		snap.Labels[i] = e.Label()
		if m.cached != nil {
			snap.Dists[i] = m.cached[i]
		} else {
			snap.Dists[i] = Uniform()
		}
	}
	return snap
}

// Weights returns a copy of the raw weight vector.
func (m *HedgeMixer) Weights() []float64 {
	out := make([]float64, len(m.weights))
	copy(out, m.weights)
	return out
}

// SetWeights replaces the weight vector. Vectors of the wrong length or
// containing non-positive or non-finite entries reset every weight to 1.
func (m *HedgeMixer) SetWeights(weights []float64) {
	if len(weights) != len(m.experts) || !validWeights(weights) {
		for i := range m.weights {
			m.weights[i] = 1.0
		}
		return
	}
	copy(m.weights, weights)
}

// Experts returns the mixer's expert bank. The slice is shared; callers
// must not mutate it.
func (m *HedgeMixer) Experts() []Expert {
	return m.experts
}

func validWeights(weights []float64) bool {
	for _, w := range weights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return false
		}
	}
	return true
}

func normalizeWeights(weights []float64) []float64 {
	out := make([]float64, len(weights))
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		for i := range out {
			out[i] = 1.0 / float64(len(out))
		}
		return out
	}
	for i, w := range weights {
		out[i] = w / total
	}
	return out
}
