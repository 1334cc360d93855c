package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/apperr"
	"github.com/Arthurlmr/weleev-sub000/models"
)

type fakeStore struct {
	listings map[uuid.UUID]*models.Listing
	scores   map[uuid.UUID]*models.ScoreRecord
	criteria *models.SearchCriteria
	profile  *models.ConversationalProfile
	upserts  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listings: map[uuid.UUID]*models.Listing{},
		scores:   map[uuid.UUID]*models.ScoreRecord{},
	}
}

func (f *fakeStore) CreateSearchCriteria(context.Context, *models.SearchCriteria) error { return nil }

func (f *fakeStore) LatestSearchCriteria(context.Context, uuid.UUID) (*models.SearchCriteria, error) {
	return f.criteria, nil
}

func (f *fakeStore) GetProfile(context.Context, uuid.UUID) (*models.ConversationalProfile, error) {
	return f.profile, nil
}

func (f *fakeStore) UpsertProfile(context.Context, *models.ConversationalProfile) error { return nil }

func (f *fakeStore) GetListing(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	return f.listings[id], nil
}

func (f *fakeStore) GetScore(_ context.Context, _, listingID uuid.UUID) (*models.ScoreRecord, error) {
	return f.scores[listingID], nil
}

func (f *fakeStore) UpsertScore(_ context.Context, rec *models.ScoreRecord) error {
	cp := *rec
	f.scores[rec.ListingID] = &cp
	f.upserts++
	return nil
}

func (f *fakeStore) DeleteExpiredScores(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeStore) GetInsight(context.Context, uuid.UUID, uuid.UUID) (*models.ListingInsight, error) {
	return nil, nil
}

func (f *fakeStore) UpsertInsight(context.Context, *models.ListingInsight) error { return nil }

func (f *fakeStore) DeleteExpiredInsights(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeStore) Close() {}

func TestScoreListingComputesAndPersists(t *testing.T) {
	store := newFakeStore()
	listingID := uuid.New()
	store.listings[listingID] = &models.Listing{
		ID:           listingID,
		PropertyType: "appartement",
		Price:        200000,
		Rooms:        3,
	}
	store.criteria = &models.SearchCriteria{
		MaxBudget:    300000,
		MinRooms:     3,
		PropertyType: models.PropertyTypeApartment,
	}

	svc := NewService(store, DefaultWeights(), 24*time.Hour, zap.NewNop())

	record, err := svc.ScoreListing(context.Background(), uuid.New(), listingID)
	if err != nil {
		t.Fatalf("ScoreListing: %v", err)
	}

	if record.Cached {
		t.Error("fresh computation flagged as cached")
	}
	if record.CriteriaScore != 10.0 {
		t.Errorf("CriteriaScore = %v, want 10.0", record.CriteriaScore)
	}
	if store.upserts != 1 {
		t.Errorf("upserts = %d, want 1", store.upserts)
	}
	if record.Reason == "" {
		t.Error("reason string is empty")
	}
}

func TestScoreListingServesFreshCache(t *testing.T) {
	store := newFakeStore()
	userID, listingID := uuid.New(), uuid.New()
	store.scores[listingID] = &models.ScoreRecord{
		UserID:    userID,
		ListingID: listingID,
		Score:     6.2,
		UpdatedAt: time.Now().Add(-1 * time.Hour),
	}

	svc := NewService(store, DefaultWeights(), 24*time.Hour, zap.NewNop())

	record, err := svc.ScoreListing(context.Background(), userID, listingID)
	if err != nil {
		t.Fatalf("ScoreListing: %v", err)
	}

	if !record.Cached {
		t.Error("record within TTL not flagged as cached")
	}
	if record.Score != 6.2 {
		t.Errorf("Score = %v, want cached 6.2", record.Score)
	}
	if store.upserts != 0 {
		t.Error("cache hit still wrote to the store")
	}
}

func TestScoreListingRecomputesStaleCache(t *testing.T) {
	store := newFakeStore()
	userID, listingID := uuid.New(), uuid.New()
	store.listings[listingID] = &models.Listing{ID: listingID, PropertyType: "maison", Price: 150000, Rooms: 4}
	store.scores[listingID] = &models.ScoreRecord{
		UserID:    userID,
		ListingID: listingID,
		Score:     6.2,
		UpdatedAt: time.Now().Add(-25 * time.Hour),
	}

	svc := NewService(store, DefaultWeights(), 24*time.Hour, zap.NewNop())

	record, err := svc.ScoreListing(context.Background(), userID, listingID)
	if err != nil {
		t.Fatalf("ScoreListing: %v", err)
	}

	if record.Cached {
		t.Error("stale record served as cached")
	}
	if store.upserts != 1 {
		t.Errorf("upserts = %d, want 1", store.upserts)
	}
}

func TestScoreListingMissingListing(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultWeights(), 24*time.Hour, zap.NewNop())

	_, err := svc.ScoreListing(context.Background(), uuid.New(), uuid.New())
	if !apperr.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestScoreListingValidation(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultWeights(), 24*time.Hour, zap.NewNop())

	if _, err := svc.ScoreListing(context.Background(), uuid.Nil, uuid.New()); !apperr.IsValidation(err) {
		t.Errorf("nil user: err = %v, want validation", err)
	}
	if _, err := svc.ScoreListing(context.Background(), uuid.New(), uuid.Nil); !apperr.IsValidation(err) {
		t.Errorf("nil listing: err = %v, want validation", err)
	}
}

func TestScoreListingNeutralWithoutCriteriaOrProfile(t *testing.T) {
	store := newFakeStore()
	listingID := uuid.New()
	store.listings[listingID] = &models.Listing{ID: listingID, PropertyType: "maison", Price: 150000, Rooms: 4}

	svc := NewService(store, DefaultWeights(), 24*time.Hour, zap.NewNop())

	record, err := svc.ScoreListing(context.Background(), uuid.New(), listingID)
	if err != nil {
		t.Fatalf("ScoreListing: %v", err)
	}

	if record.CriteriaScore != 5.0 || record.LifestyleScore != 5.0 || record.ValueScore != 5.0 || record.BonusScore != 5.0 {
		t.Errorf("sub-scores = %v/%v/%v/%v, want all neutral",
			record.CriteriaScore, record.LifestyleScore, record.ValueScore, record.BonusScore)
	}
	if record.Score != 5.0 {
		t.Errorf("Score = %v, want 5.0", record.Score)
	}
}
