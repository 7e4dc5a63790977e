package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// ModelVersion is the current persisted-model schema version.
const ModelVersion = 1

// PersistedModel is the per-profile snapshot of the history mixer. The
// engine owns this schema; stores treat it as opaque JSON.
type PersistedModel struct {
	ProfileID    string     `json:"profileId"`
	ModelVersion int        `json:"modelVersion"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	RoundsSeen   int        `json:"roundsSeen"`
	State        MixerState `json:"state"`
}

// MixerState is the serialized form of one HedgeMixer: learning rate, raw
// weight vector, and the tagged per-expert states in bank order. Expert
// entries stay raw until a mixer is restored so that a malformed entry can
// be replaced without failing the whole model.
type MixerState struct {
	Eta     float64           `json:"eta"`
	Weights []float64         `json:"weights"`
	Experts []json.RawMessage `json:"experts"`
}

// EncodeModel serializes a persisted model to JSON.
func EncodeModel(m *PersistedModel) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return data, nil
}

// persistedModelWire tolerates malformed fields during decoding.
type persistedModelWire struct {
	ProfileID    string          `json:"profileId"`
	ModelVersion int             `json:"modelVersion"`
	UpdatedAt    json.RawMessage `json:"updatedAt"`
	RoundsSeen   int             `json:"roundsSeen"`
	State        json.RawMessage `json:"state"`
}

// DecodeModel deserializes a persisted model, tolerating partial damage:
// an unparseable state becomes empty (treated downstream as no history), a
// malformed timestamp becomes the zero time, and a version mismatch drops
// the learned state entirely. Only unparseable JSON is an error.
func DecodeModel(data []byte) (*PersistedModel, error) {
	var wire persistedModelWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	m := &PersistedModel{
		ProfileID:    wire.ProfileID,
		ModelVersion: ModelVersion,
		RoundsSeen:   wire.RoundsSeen,
	}
	if m.RoundsSeen < 0 {
		m.RoundsSeen = 0
	}

	var updatedAt string
	if json.Unmarshal(wire.UpdatedAt, &updatedAt) == nil {
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			m.UpdatedAt = t
		}
	}

	if wire.ModelVersion != ModelVersion {
		// Learned state from another schema version is not trusted.
		m.RoundsSeen = 0
		return m, nil
	}

	if len(wire.State) > 0 {
		var state MixerState
		if json.Unmarshal(wire.State, &state) == nil {
			m.State = state
		}
	}
	return m, nil
}

// expertWire is the tagged on-disk form shared by every expert kind;
// fields irrelevant to a kind are omitted.
type expertWire struct {
	Kind       string               `json:"kind"`
	Window     *int                 `json:"window,omitempty"`
	Alpha      *float64             `json:"alpha,omitempty"`
	Decay      *float64             `json:"decay,omitempty"`
	Order      *int                 `json:"order,omitempty"`
	MinPeriod  *int                 `json:"minPeriod,omitempty"`
	MaxPeriod  *int                 `json:"maxPeriod,omitempty"`
	Confidence *float64             `json:"confidence,omitempty"`
	Table      map[string][]float64 `json:"table,omitempty"`
}

func encodeTable(table map[string]countRow) map[string][]float64 {
	if len(table) == 0 {
		return nil
	}
	out := make(map[string][]float64, len(table))
	for key, row := range table {
		counts := make([]float64, NumMoves)
		copy(counts, row[:])
		out[key] = counts
	}
	return out
}

func encodeExpert(e Expert) (json.RawMessage, error) {
	var wire expertWire
	wire.Kind = e.Kind()
	switch x := e.(type) {
	case *frequencyExpert:
		wire.Window = &x.window
		wire.Alpha = &x.alpha
	case *recencyExpert:
		wire.Decay = &x.decay
		wire.Alpha = &x.alpha
	case *markovExpert:
		wire.Order = &x.order
		wire.Alpha = &x.alpha
		wire.Table = encodeTable(x.table)
	case *outcomeExpert:
		wire.Alpha = &x.alpha
		wire.Table = encodeTable(x.table)
	case *wslsExpert:
		wire.Alpha = &x.alpha
		wire.Table = encodeTable(x.table)
	case *periodicExpert:
		wire.MinPeriod = &x.minPeriod
		wire.MaxPeriod = &x.maxPeriod
		wire.Window = &x.window
		wire.Confidence = &x.confidence
	case *baitExpert:
		wire.Alpha = &x.alpha
		wire.Table = encodeTable(x.table)
	default:
		return nil, fmt.Errorf("unserializable expert kind %q", e.Kind())
	}
	return json.Marshal(wire)
}

// decodeExpert rebuilds one expert from its tagged state. Malformed entries
// and unknown kinds fall back to a freshly default-constructed expert: of
// the declared kind when the tag is readable, otherwise of the kind the
// bank slot expects.
func decodeExpert(cfg Config, raw json.RawMessage, slotKind string) Expert {
	fresh := func(kind string) Expert {
		if e, err := defaultExpertOfKind(cfg, kind); err == nil {
			return e
		}
		e, _ := defaultExpertOfKind(cfg, slotKind)
		return e
	}

	var wire expertWire
	if err := json.Unmarshal(raw, &wire); err != nil || wire.Kind == "" {
		return fresh(slotKind)
	}

	e := fresh(wire.Kind)
	switch x := e.(type) {
	case *frequencyExpert:
		x.window = clampWindow(wire.Window, x.window)
		x.alpha = clampAlpha(wire.Alpha, x.alpha)
	case *recencyExpert:
		x.decay = clampDecay(wire.Decay, x.decay)
		x.alpha = clampAlpha(wire.Alpha, x.alpha)
	case *markovExpert:
		x.order = clampOrder(wire.Order, x.order)
		x.alpha = clampAlpha(wire.Alpha, x.alpha)
		x.table = decodeTable(wire.Table, validMarkovKey)
	case *outcomeExpert:
		x.alpha = clampAlpha(wire.Alpha, x.alpha)
		x.table = decodeTable(wire.Table, validOutcomeKey)
	case *wslsExpert:
		x.alpha = clampAlpha(wire.Alpha, x.alpha)
		x.table = decodeTable(wire.Table, validWSLSKey)
	case *periodicExpert:
		x.minPeriod = clampWindow(wire.MinPeriod, x.minPeriod)
		x.maxPeriod = clampWindow(wire.MaxPeriod, x.maxPeriod)
		if x.maxPeriod < x.minPeriod {
			x.maxPeriod = x.minPeriod
		}
		x.window = clampWindow(wire.Window, x.window)
		x.confidence = clampConfidence(wire.Confidence, x.confidence)
	case *baitExpert:
		x.alpha = clampAlpha(wire.Alpha, x.alpha)
		x.table = decodeTable(wire.Table, validMoveKey)
	}
	return e
}

// State serializes the mixer into an independent MixerState snapshot. The
// expert states are encoded immediately, so later mutations of the live
// mixer cannot leak into a deferred save.
func (m *HedgeMixer) State() MixerState {
	state := MixerState{
		Eta:     m.eta,
		Weights: m.Weights(),
		Experts: make([]json.RawMessage, 0, len(m.experts)),
	}
	for _, e := range m.experts {
		raw, err := encodeExpert(e)
		if err != nil {
			raw = []byte(fmt.Sprintf(`{"kind":%q}`, e.Kind()))
		}
		state.Experts = append(state.Experts, raw)
	}
	return state
}

// RestoreMixer materializes a mixer from persisted state over the canonical
// bank layout. Slots the state does not cover (or covers with garbage) keep
// default-constructed experts; a corrupt weight vector resets to all ones.
func RestoreMixer(cfg Config, state MixerState) *HedgeMixer {
	bank := defaultBank(cfg)
	for i := range bank {
		if i < len(state.Experts) {
			bank[i] = decodeExpert(cfg, state.Experts[i], bank[i].Kind())
		}
	}
	m := NewHedgeMixer(cfg, bank)
	if state.Eta > 0 && !math.IsNaN(state.Eta) && !math.IsInf(state.Eta, 0) {
		m.eta = state.Eta
	}
	m.SetWeights(state.Weights)
	return m
}

func clampAlpha(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return fallback
	}
	return *v
}

func clampDecay(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return clamp(*v, 0.01, 0.995)
}

func clampWindow(v *int, fallback int) int {
	if v == nil || *v < 1 {
		return fallback
	}
	return *v
}

func clampOrder(v *int, fallback int) int {
	if v == nil || *v < 1 {
		return fallback
	}
	return *v
}

func clampConfidence(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return clamp(*v, 0, 1)
}

// decodeTable keeps only rows with a valid key and exactly NumMoves finite,
// non-negative counts; everything else is dropped.
func decodeTable(wire map[string][]float64, validKey func(string) bool) map[string]countRow {
	table := make(map[string]countRow, len(wire))
	for key, counts := range wire {
		if !validKey(key) || len(counts) != NumMoves {
			continue
		}
		var row countRow
		ok := true
		for i, v := range counts {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				ok = false
				break
			}
			row[i] = v
		}
		if ok {
			table[key] = row
		}
	}
	return table
}

func isMoveChar(c byte) bool    { return c == 'r' || c == 'p' || c == 's' }
func isOutcomeChar(c byte) bool { return c == 'w' || c == 'l' || c == 't' }

func validMarkovKey(key string) bool {
	if len(key) == 0 {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !isMoveChar(key[i]) {
			return false
		}
	}
	return true
}

func validMoveKey(key string) bool {
	return len(key) == 1 && isMoveChar(key[0])
}

func validOutcomeKey(key string) bool {
	return len(key) == 1 && isOutcomeChar(key[0])
}

func validWSLSKey(key string) bool {
	return len(key) == 2 && isOutcomeChar(key[0]) && isMoveChar(key[1])
}
