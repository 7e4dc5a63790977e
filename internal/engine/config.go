package engine

import "time"

// Config holds the engine's tunable parameters. The numeric constants are
// empirically tuned; DefaultConfig returns the values the engine ships with.
type Config struct {
	// Eta is the Hedge learning rate.
	Eta float64
	// ProbFloor bounds an expert's probability on the realized move from
	// below when computing its Hedge loss.
	ProbFloor float64

	// Expert parameters.
	FrequencyWindow    int
	FrequencyAlpha     float64
	RecencyDecay       float64
	RecencyAlpha       float64
	MarkovOrders       []int
	TableAlpha         float64
	PeriodicMinPeriod  int
	PeriodicMaxPeriod  int
	PeriodicWindow     int
	PeriodicConfidence float64

	// Difficulty policy.
	NormalTemperature    float64
	RuthlessTemperature  float64
	NormalOverrideChance float64

	// Dual-horizon blending.
	BlendRampRounds    int
	HistoryWeightStart float64
	HistoryWeightFloor float64
	HistoryWeightCap   float64
	StalenessDecay     time.Duration

	// Persistence.
	SaveDebounce time.Duration
}

// DefaultConfig returns the shipped engine tuning.
func DefaultConfig() Config {
	return Config{
		Eta:       1.6,
		ProbFloor: 0.001,

		FrequencyWindow:    20,
		FrequencyAlpha:     0.5,
		RecencyDecay:       0.9,
		RecencyAlpha:       1.0,
		MarkovOrders:       []int{2, 3},
		TableAlpha:         1.0,
		PeriodicMinPeriod:  2,
		PeriodicMaxPeriod:  6,
		PeriodicWindow:     16,
		PeriodicConfidence: 0.6,

		NormalTemperature:    2.0,
		RuthlessTemperature:  4.0,
		NormalOverrideChance: 0.05,

		BlendRampRounds:    4,
		HistoryWeightStart: 0.6,
		HistoryWeightFloor: 0.3,
		HistoryWeightCap:   0.8,
		StalenessDecay:     45 * time.Minute,

		SaveDebounce: 250 * time.Millisecond,
	}
}
