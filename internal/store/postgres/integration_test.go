//go:build integration

package postgres

import (
	"testing"
	"time"

	"github.com/John-N-Weaver/rps-predictor-sub000/internal/engine"
	"github.com/John-N-Weaver/rps-predictor-sub000/internal/testutil"
)

func TestStore_RoundTrip(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CleanupDB(t, db)
	s := NewStore(db)
	ctx := t.Context()

	got, err := s.Load(ctx, "alice")
	if err != nil || got != nil {
		t.Fatalf("Load on empty table = %v, %v; want nil, nil", got, err)
	}

	model := &engine.PersistedModel{
		ProfileID:    "alice",
		ModelVersion: engine.ModelVersion,
		UpdatedAt:    time.Now().UTC().Truncate(time.Second),
		RoundsSeen:   9,
	}
	if err := s.Save(ctx, model); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = s.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.RoundsSeen != 9 || got.ProfileID != "alice" {
		t.Errorf("Load = %+v, want the saved model", got)
	}
	if !got.UpdatedAt.Equal(model.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, model.UpdatedAt)
	}
}

func TestStore_SaveUpserts(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CleanupDB(t, db)
	s := NewStore(db)
	ctx := t.Context()

	for rounds := 1; rounds <= 3; rounds++ {
		if err := s.Save(ctx, &engine.PersistedModel{
			ProfileID:    "bob",
			ModelVersion: engine.ModelVersion,
			RoundsSeen:   rounds,
		}); err != nil {
			t.Fatalf("Save #%d: %v", rounds, err)
		}
	}

	got, err := s.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.RoundsSeen != 3 {
		t.Errorf("RoundsSeen = %d, want the last write (3)", got.RoundsSeen)
	}

	var count int
	if err := db.QueryRow(`SELECT count(*) FROM profile_models WHERE profile_id = 'bob'`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1 upserted row", count)
	}
}

func TestStore_Clear(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CleanupDB(t, db)
	s := NewStore(db)
	ctx := t.Context()

	if err := s.Save(ctx, &engine.PersistedModel{ProfileID: "carol", ModelVersion: engine.ModelVersion}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(ctx, "carol"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err := s.Load(ctx, "carol")
	if err != nil || got != nil {
		t.Errorf("Load after clear = %v, %v; want nil, nil", got, err)
	}

	if err := s.Clear(ctx, "nobody"); err != nil {
		t.Errorf("Clear of absent profile: %v", err)
	}
}
