// Package memory implements the engine's ModelStore in process memory,
// for tests and hosts that opt out of durable persistence.
package memory

import (
	"context"
	"sync"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

// Store holds encoded model snapshots keyed by profile id. Snapshots are
// stored serialized so that Load always returns an independent copy, same
// as the durable stores.
type Store struct {
	mu     sync.RWMutex
	models map[string][]byte
}

// NewStore creates an empty in-memory model store.
func NewStore() *Store {
	return &Store{models: make(map[string][]byte)}
}

// Load fetches the persisted model for a profile, or (nil, nil) when absent.
func (s *Store) Load(_ context.Context, profileID string) (*engine.PersistedModel, error) {
	s.mu.RLock()
	data, ok := s.models[profileID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return engine.DecodeModel(data)
}

// Save stores the model snapshot, keyed by its profile id.
func (s *Store) Save(_ context.Context, model *engine.PersistedModel) error {
	data, err := engine.EncodeModel(model)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.models[model.ProfileID] = data
	s.mu.Unlock()
	return nil
}

// Clear removes the persisted model for a profile.
func (s *Store) Clear(_ context.Context, profileID string) error {
	s.mu.Lock()
	delete(s.models, profileID)
	s.mu.Unlock()
	return nil
}

// Len reports how many profiles have stored models.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}
