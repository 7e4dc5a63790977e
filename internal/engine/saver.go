package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ModelStore is the persistence gateway the engine requires. Implementations
// live outside the engine (Redis, Postgres, memory); Load returns (nil, nil)
// when no model exists for the profile.
type ModelStore interface {
	Load(ctx context.Context, profileID string) (*PersistedModel, error)
	Save(ctx context.Context, model *PersistedModel) error
	Clear(ctx context.Context, profileID string) error
}

// saveTimeout bounds one store write.
const saveTimeout = 5 * time.Second

// saver coalesces rapid consecutive snapshots into one debounced write and
// guarantees the last snapshot is written when Flush is called. Store
// failures are logged and swallowed; the in-memory mixer stays authoritative.
type saver struct {
	store ModelStore
	delay time.Duration
	log   zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *PersistedModel
}

func newSaver(store ModelStore, delay time.Duration, log zerolog.Logger) *saver {
	return &saver{store: store, delay: delay, log: log}
}

// Schedule queues a snapshot for a debounced write, replacing any snapshot
// already pending.
func (s *saver) Schedule(model *PersistedModel) {
	if s.store == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = model
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.Flush)
}

// Flush synchronously writes the pending snapshot, if any. The host must
// call this (via Session.Close or a profile switch) before teardown or the
// most recent learning is lost.
func (s *saver) Flush() {
	s.mu.Lock()
	model := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if model == nil || s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.Save(ctx, model); err != nil {
		s.log.Warn().Err(err).Str("profileId", model.ProfileID).Msg("Model save failed")
	}
}

// Cancel drops any pending snapshot without writing it.
func (s *saver) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
