package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Session drives the engine for one player profile. It owns two independent
// mixers over the same expert labels: a realtime mixer that lives only as
// long as the session, and a history mixer restored from the persisted
// model and snapshotted back through the debounced saver. Blending happens
// at the distribution level only; the two mixers never share state.
//
// Sessions are single-threaded: the host runs one predict/observe cycle to
// completion before accepting the next round.
type Session struct {
	cfg       Config
	baseLog   zerolog.Logger
	log       zerolog.Logger
	store     ModelStore
	saver     *saver
	profileID string

	difficulty     Difficulty
	trainingMode   bool
	predictEnabled bool

	realtime      *HedgeMixer
	history       *HedgeMixer
	historyMeta   historyMeta
	sessionRounds int

	now func() time.Time
}

// Trace is the inspection record returned with every prediction; the host
// UI renders it as-is.
type Trace struct {
	Distribution Distribution  `json:"distribution"`
	Confidence   float64       `json:"confidence"`
	Experts      []ExpertTrace `json:"experts"`
}

// ExpertTrace reports one expert's blended normalized weight and the move
// it considered most likely on the last prediction.
type ExpertTrace struct {
	Label   string  `json:"label"`
	Weight  float64 `json:"weight"`
	TopMove Move    `json:"topMove"`
}

// NewSession creates a session for the given profile, restoring the history
// mixer from the store when a persisted model exists. A nil store disables
// persistence; load failures are logged and treated as a fresh profile.
func NewSession(cfg Config, store ModelStore, profileID string, log zerolog.Logger) *Session {
	s := &Session{
		cfg:            cfg,
		baseLog:        log,
		log:            log.With().Str("profileId", profileID).Logger(),
		store:          store,
		saver:          newSaver(store, cfg.SaveDebounce, log),
		profileID:      profileID,
		difficulty:     DifficultyNormal,
		predictEnabled: true,
		realtime:       newDefaultMixer(cfg),
		now:            time.Now,
	}
	s.loadHistory()
	return s
}

// loadHistory restores the history mixer for the current profile, falling
// back to a default-constructed mixer on any failure.
func (s *Session) loadHistory() {
	s.history = newDefaultMixer(s.cfg)
	s.historyMeta = historyMeta{}
	if s.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	model, err := s.store.Load(ctx, s.profileID)
	if err != nil {
		s.log.Warn().Err(err).Msg("Model load failed; starting fresh")
		return
	}
	if model == nil {
		return
	}

	s.history = RestoreMixer(s.cfg, model.State)
	s.historyMeta = historyMeta{
		rounds:    model.RoundsSeen,
		updatedAt: model.UpdatedAt,
		hasState:  len(model.State.Experts) > 0,
	}
	s.log.Debug().Int("roundsSeen", model.RoundsSeen).Msg("History model restored")
}

// Predict runs both horizons on the live context, blends them, and commits
// one AI move through the difficulty policy.
func (s *Session) Predict(ctx *Context) (Move, Trace) {
	realtimeDist := s.realtime.Predict(ctx)
	historyDist := s.history.Predict(ctx)

	bw := computeBlendWeights(s.cfg, s.sessionRounds, s.historyMeta, s.now())
	blended := blendDistributions(bw, realtimeDist, historyDist)

	move := chooseMove(s.cfg, blended, s.difficulty, ctx)
	return move, s.buildTrace(blended, bw)
}

func (s *Session) buildTrace(blended Distribution, bw BlendWeights) Trace {
	realtimeSnap := s.realtime.Snapshot()
	historySnap := s.history.Snapshot()

	trace := Trace{
		Distribution: blended,
		Confidence:   blended.Max(),
		Experts:      make([]ExpertTrace, len(realtimeSnap.Labels)),
	}
	for i := range trace.Experts {
		weight := bw.Realtime * realtimeSnap.Weights[i]
		if i < len(historySnap.Weights) {
			weight += bw.History * historySnap.Weights[i]
		}
		trace.Experts[i] = ExpertTrace{
			Label:   realtimeSnap.Labels[i],
			Weight:  weight,
			TopMove: realtimeSnap.Dists[i].ArgMax(),
		}
	}
	return trace
}

// Observe feeds the revealed player move back into the engine. The realtime
// mixer learns on every round while prediction is enabled; the history mixer
// learns only while trainable, and each such update bumps the persisted
// round counter and schedules a debounced save.
func (s *Session) Observe(ctx *Context, actual Move) {
	if s.predictEnabled {
		s.realtime.Update(ctx, actual)
	}
	if s.trainable() {
		s.history.Update(ctx, actual)
		s.historyMeta.rounds++
		s.historyMeta.updatedAt = s.now()
		s.historyMeta.hasState = true
		s.saver.Schedule(s.snapshotModel())
	}
	s.sessionRounds++
}

// trainable reports whether the history mixer may learn from this round.
func (s *Session) trainable() bool {
	if s.trainingMode {
		return true
	}
	return s.predictEnabled && s.difficulty != DifficultyFair
}

// snapshotModel takes an atomic, independent copy of the history mixer.
func (s *Session) snapshotModel() *PersistedModel {
	return &PersistedModel{
		ProfileID:    s.profileID,
		ModelVersion: ModelVersion,
		UpdatedAt:    s.now(),
		RoundsSeen:   s.historyMeta.rounds,
		State:        s.history.State(),
	}
}

// BlendWeights exposes the pair the next prediction would use.
func (s *Session) BlendWeights() BlendWeights {
	return computeBlendWeights(s.cfg, s.sessionRounds, s.historyMeta, s.now())
}

// SetDifficulty switches the difficulty tier mid-session.
func (s *Session) SetDifficulty(d Difficulty) { s.difficulty = d }

// Difficulty returns the active difficulty tier.
func (s *Session) Difficulty() Difficulty { return s.difficulty }

// SetTrainingMode toggles explicit training, which makes the history mixer
// learn regardless of difficulty.
func (s *Session) SetTrainingMode(on bool) { s.trainingMode = on }

// TrainingMode reports whether explicit training is on.
func (s *Session) TrainingMode() bool { return s.trainingMode }

// SetPredictionEnabled toggles the predictor. While disabled neither mixer
// learns outside of explicit training mode.
func (s *Session) SetPredictionEnabled(on bool) { s.predictEnabled = on }

// Rounds returns how many rounds this session has observed.
func (s *Session) Rounds() int { return s.sessionRounds }

// ProfileID returns the profile this session predicts for.
func (s *Session) ProfileID() string { return s.profileID }

// HistoryRounds returns the history mixer's lifetime round counter.
func (s *Session) HistoryRounds() int { return s.historyMeta.rounds }

// ResetSession discards the realtime mixer and the session round counter,
// leaving the persisted horizon untouched.
func (s *Session) ResetSession() {
	s.realtime = newDefaultMixer(s.cfg)
	s.sessionRounds = 0
}

// ClearProfile drops any pending save without writing it, resets both
// horizons, and removes the persisted model from the store.
func (s *Session) ClearProfile(ctx context.Context) error {
	s.saver.Cancel()
	s.ResetSession()
	s.history = newDefaultMixer(s.cfg)
	s.historyMeta = historyMeta{}
	if s.store == nil {
		return nil
	}
	if err := s.store.Clear(ctx, s.profileID); err != nil {
		return err
	}
	return nil
}

// SwitchProfile flushes pending learning for the current profile, then
// rebinds the session to another profile with fresh session state.
func (s *Session) SwitchProfile(profileID string) {
	s.saver.Flush()
	s.profileID = profileID
	s.log = s.baseLog.With().Str("profileId", profileID).Logger()
	s.ResetSession()
	s.loadHistory()
}

// Flush synchronously writes any pending model snapshot.
func (s *Session) Flush() { s.saver.Flush() }

// Close flushes pending persistence; the session must not be used after.
func (s *Session) Close() {
	s.saver.Flush()
}
