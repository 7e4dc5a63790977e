package engine

import (
	"math"
	"time"
)

// BlendWeights is the interpolation pair between the session-scoped realtime
// mixer and the persisted history mixer. The two components sum to 1.
type BlendWeights struct {
	Realtime float64
	History  float64
}

// historyMeta tracks what the session knows about the persisted horizon:
// how many rounds the history mixer has ever learned from and when it last
// learned. A zero-value meta means no usable history.
type historyMeta struct {
	rounds    int
	updatedAt time.Time
	hasState  bool
}

func (h historyMeta) usable() bool {
	return h.hasState && h.rounds > 0
}

// computeBlendWeights decides how much to trust the persisted horizon.
// History starts trusted at the top of a session and yields to the fresher
// realtime signal as rounds accumulate; staleness decays it further.
func computeBlendWeights(cfg Config, sessionRounds int, meta historyMeta, now time.Time) BlendWeights {
	if !meta.usable() {
		return BlendWeights{Realtime: 1, History: 0}
	}

	progress := clamp(float64(sessionRounds)/float64(cfg.BlendRampRounds), 0, 1)
	history := cfg.HistoryWeightStart - (cfg.HistoryWeightStart-cfg.HistoryWeightFloor)*progress

	age := now.Sub(meta.updatedAt)
	if age < 0 {
		age = 0
	}
	history *= math.Exp(-age.Seconds() / cfg.StalenessDecay.Seconds())

	history = clamp(history, 0, cfg.HistoryWeightCap)
	realtime := 1 - history

	total := realtime + history
	if total <= 0 || math.IsNaN(total) {
		return BlendWeights{Realtime: 1, History: 0}
	}
	return BlendWeights{Realtime: realtime / total, History: history / total}
}

// blendDistributions interpolates the two horizon distributions. A
// degenerate result falls back to uniform via Normalize.
func blendDistributions(bw BlendWeights, realtime, history Distribution) Distribution {
	var out Distribution
	for i := range out {
		out[i] = bw.Realtime*realtime[i] + bw.History*history[i]
	}
	return out.Normalize()
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
