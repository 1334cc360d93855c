package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/models"
)

type fakeStore struct {
	scoreCutoff   time.Time
	insightCutoff time.Time
	scoreErr      error
}

func (f *fakeStore) CreateSearchCriteria(context.Context, *models.SearchCriteria) error { return nil }

func (f *fakeStore) LatestSearchCriteria(context.Context, uuid.UUID) (*models.SearchCriteria, error) {
	return nil, nil
}

func (f *fakeStore) GetProfile(context.Context, uuid.UUID) (*models.ConversationalProfile, error) {
	return nil, nil
}

func (f *fakeStore) UpsertProfile(context.Context, *models.ConversationalProfile) error { return nil }

func (f *fakeStore) GetListing(context.Context, uuid.UUID) (*models.Listing, error) {
	return nil, nil
}

func (f *fakeStore) GetScore(context.Context, uuid.UUID, uuid.UUID) (*models.ScoreRecord, error) {
	return nil, nil
}

func (f *fakeStore) UpsertScore(context.Context, *models.ScoreRecord) error { return nil }

func (f *fakeStore) DeleteExpiredScores(_ context.Context, olderThan time.Time) (int64, error) {
	f.scoreCutoff = olderThan
	return 3, f.scoreErr
}

func (f *fakeStore) GetInsight(context.Context, uuid.UUID, uuid.UUID) (*models.ListingInsight, error) {
	return nil, nil
}

func (f *fakeStore) UpsertInsight(context.Context, *models.ListingInsight) error { return nil }

func (f *fakeStore) DeleteExpiredInsights(_ context.Context, olderThan time.Time) (int64, error) {
	f.insightCutoff = olderThan
	return 2, nil
}

func (f *fakeStore) Close() {}

func TestSweepUsesRetentionCutoff(t *testing.T) {
	store := &fakeStore{}
	s := New(store, "0 4 * * *", 7*24*time.Hour, zap.NewNop())

	before := time.Now().UTC().Add(-7 * 24 * time.Hour)
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	after := time.Now().UTC().Add(-7 * 24 * time.Hour)

	if store.scoreCutoff.Before(before) || store.scoreCutoff.After(after) {
		t.Errorf("score cutoff = %v, want about 7 days ago", store.scoreCutoff)
	}
	if store.insightCutoff.IsZero() {
		t.Error("insight sweep not invoked")
	}
}

func TestSweepPropagatesStoreError(t *testing.T) {
	store := &fakeStore{scoreErr: errors.New("db gone")}
	s := New(store, "", time.Hour, zap.NewNop())

	if err := s.Sweep(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !store.insightCutoff.IsZero() {
		t.Error("insight sweep ran after score sweep failed")
	}
}

func TestStartRejectsBadCron(t *testing.T) {
	s := New(&fakeStore{}, "not a cron spec", time.Hour, zap.NewNop())
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
