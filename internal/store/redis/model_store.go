package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

func modelKey(profileID string) string { return "rps:profile:" + profileID + ":model" }

// Load fetches the persisted model for a profile, or (nil, nil) when absent.
func (s *Store) Load(ctx context.Context, profileID string) (*engine.PersistedModel, error) {
	data, err := s.rdb.Get(ctx, modelKey(profileID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}
	model, err := engine.DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return model, nil
}

// Save stores the model snapshot, keyed by its profile id. Models have no
// TTL; profiles are cleared explicitly.
func (s *Store) Save(ctx context.Context, model *engine.PersistedModel) error {
	data, err := engine.EncodeModel(model)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, modelKey(model.ProfileID), data, 0).Err(); err != nil {
		return fmt.Errorf("set model: %w", err)
	}
	return nil
}

// Clear removes the persisted model for a profile.
func (s *Store) Clear(ctx context.Context, profileID string) error {
	if err := s.rdb.Del(ctx, modelKey(profileID)).Err(); err != nil {
		return fmt.Errorf("del model: %w", err)
	}
	return nil
}
