package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
)

// Store persists profile models in the profile_models table.
type Store struct {
	db *sql.DB
}

// NewStore creates a Postgres-backed model store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load fetches the persisted model for a profile, or (nil, nil) when absent.
func (s *Store) Load(ctx context.Context, profileID string) (*engine.PersistedModel, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT model FROM profile_models WHERE profile_id = $1`,
		profileID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select model: %w", err)
	}
	model, err := engine.DecodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return model, nil
}

// Save upserts the model snapshot for its profile id.
func (s *Store) Save(ctx context.Context, model *engine.PersistedModel) error {
	data, err := engine.EncodeModel(model)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profile_models (profile_id, model, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (profile_id)
		 DO UPDATE SET model = EXCLUDED.model, updated_at = now()`,
		model.ProfileID, data,
	)
	if err != nil {
		return fmt.Errorf("upsert model: %w", err)
	}
	return nil
}

// Clear removes the persisted model for a profile.
func (s *Store) Clear(ctx context.Context, profileID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM profile_models WHERE profile_id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	return nil
}
