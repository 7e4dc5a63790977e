package engine

import "fmt"

// Expert is one behavioral sub-model: it predicts the player's next move
// from the round history and learns from the revealed move. Implementations
// with no mutable learned state make Update a no-op.
type Expert interface {
	// Kind is the serialization tag shared by all instances of one expert type.
	Kind() string
	// Label identifies this instance (kinds that appear more than once in
	// the bank carry a distinguishing suffix, e.g. "markov2").
	Label() string
	Predict(ctx *Context) Distribution
	Update(ctx *Context, actual Move)
}

// Expert kind tags, stable across persisted model versions.
const (
	KindFrequency = "frequency"
	KindRecency   = "recency"
	KindMarkov    = "markov"
	KindOutcome   = "outcome"
	KindWSLS      = "wsls"
	KindPeriodic  = "periodic"
	KindBait      = "bait"
)

// defaultBank constructs the expert bank in its canonical order. The order
// is load-bearing: persisted weight vectors and expert lists are positional.
func defaultBank(cfg Config) []Expert {
	bank := []Expert{
		newFrequencyExpert(cfg.FrequencyWindow, cfg.FrequencyAlpha),
		newRecencyExpert(cfg.RecencyDecay, cfg.RecencyAlpha),
	}
	for _, order := range cfg.MarkovOrders {
		bank = append(bank, newMarkovExpert(order, cfg.TableAlpha))
	}
	bank = append(bank,
		newOutcomeExpert(cfg.TableAlpha),
		newWSLSExpert(cfg.TableAlpha),
		newPeriodicExpert(cfg.PeriodicMinPeriod, cfg.PeriodicMaxPeriod, cfg.PeriodicWindow, cfg.PeriodicConfidence),
		newBaitExpert(cfg.TableAlpha),
	)
	return bank
}

// defaultExpertOfKind builds a fresh expert of the given kind with the
// config's default parameters. Markov defaults to the first configured order.
func defaultExpertOfKind(cfg Config, kind string) (Expert, error) {
	switch kind {
	case KindFrequency:
		return newFrequencyExpert(cfg.FrequencyWindow, cfg.FrequencyAlpha), nil
	case KindRecency:
		return newRecencyExpert(cfg.RecencyDecay, cfg.RecencyAlpha), nil
	case KindMarkov:
		order := 2
		if len(cfg.MarkovOrders) > 0 {
			order = cfg.MarkovOrders[0]
		}
		return newMarkovExpert(order, cfg.TableAlpha), nil
	case KindOutcome:
		return newOutcomeExpert(cfg.TableAlpha), nil
	case KindWSLS:
		return newWSLSExpert(cfg.TableAlpha), nil
	case KindPeriodic:
		return newPeriodicExpert(cfg.PeriodicMinPeriod, cfg.PeriodicMaxPeriod, cfg.PeriodicWindow, cfg.PeriodicConfidence), nil
	case KindBait:
		return newBaitExpert(cfg.TableAlpha), nil
	}
	return nil, fmt.Errorf("unknown expert kind %q", kind)
}

// countRow is a per-key tally of observed next moves.
type countRow [NumMoves]float64

// smoothed converts the row to a Laplace-smoothed distribution.
func (r countRow) smoothed(alpha float64) Distribution {
	var d Distribution
	for i, v := range r {
		d[i] = v + alpha
	}
	return d.Normalize()
}

// Move and outcome key characters for table encoding.
var moveChars = [NumMoves]byte{'r', 'p', 's'}
var outcomeChars = [3]byte{'w', 'l', 't'}

// encodeMoves turns a move sequence into a table key.
func encodeMoves(moves []Move) string {
	key := make([]byte, len(moves))
	for i, m := range moves {
		key[i] = moveChars[m]
	}
	return string(key)
}
