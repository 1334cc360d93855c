package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/ai"
	"github.com/Arthurlmr/weleev-sub000/apperr"
	"github.com/Arthurlmr/weleev-sub000/models"
)

type stubExtractor struct {
	extraction *ai.Extraction
	err        error

	lastMessage  string
	lastKnown    map[string]any
	lastQuestion string
}

func (s *stubExtractor) ExtractCriteria(_ context.Context, message string, known map[string]any, nextQuestion string) (*ai.Extraction, error) {
	s.lastMessage = message
	s.lastKnown = known
	s.lastQuestion = nextQuestion
	if s.err != nil {
		return nil, s.err
	}
	return s.extraction, nil
}

type fakeStore struct {
	profiles map[uuid.UUID]*models.ConversationalProfile
	upserts  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[uuid.UUID]*models.ConversationalProfile{}}
}

func (f *fakeStore) CreateSearchCriteria(context.Context, *models.SearchCriteria) error {
	return nil
}

func (f *fakeStore) LatestSearchCriteria(context.Context, uuid.UUID) (*models.SearchCriteria, error) {
	return nil, nil
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*models.ConversationalProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p *models.ConversationalProfile) error {
	cp := *p
	f.profiles[p.UserID] = &cp
	f.upserts++
	return nil
}

func (f *fakeStore) GetListing(context.Context, uuid.UUID) (*models.Listing, error) {
	return nil, nil
}

func (f *fakeStore) GetScore(context.Context, uuid.UUID, uuid.UUID) (*models.ScoreRecord, error) {
	return nil, nil
}

func (f *fakeStore) UpsertScore(context.Context, *models.ScoreRecord) error { return nil }

func (f *fakeStore) DeleteExpiredScores(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeStore) GetInsight(context.Context, uuid.UUID, uuid.UUID) (*models.ListingInsight, error) {
	return nil, nil
}

func (f *fakeStore) UpsertInsight(context.Context, *models.ListingInsight) error { return nil }

func (f *fakeStore) DeleteExpiredInsights(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeStore) Close() {}

func TestAdvanceConversationAppliesExtraction(t *testing.T) {
	store := newFakeStore()
	extractor := &stubExtractor{extraction: &ai.Extraction{
		Criteria: map[string]any{"search_type": "acheter", "city": "Lyon"},
		Reply:    "Très bien, un achat à Lyon !",
	}}
	engine := NewEngine(store, extractor, zap.NewNop())
	userID := uuid.New()

	result, err := engine.AdvanceConversation(context.Background(), userID, "je veux acheter à Lyon")
	if err != nil {
		t.Fatalf("AdvanceConversation: %v", err)
	}

	if result.CriteriaFilled != 2 {
		t.Errorf("CriteriaFilled = %d, want 2", result.CriteriaFilled)
	}
	if result.Completeness != 11 {
		t.Errorf("Completeness = %d, want 11", result.Completeness)
	}
	if result.AllCriteriaFilled {
		t.Error("AllCriteriaFilled should be false")
	}
	if result.NextQuestion == nil || result.NextQuestion.Key != "property_types" {
		t.Errorf("NextQuestion = %+v, want property_types", result.NextQuestion)
	}
	if result.AssistantMessage != "Très bien, un achat à Lyon !" {
		t.Errorf("AssistantMessage = %q", result.AssistantMessage)
	}

	saved := store.profiles[userID]
	if saved == nil {
		t.Fatal("profile not persisted")
	}
	if saved.City == nil || *saved.City != "Lyon" {
		t.Errorf("persisted City = %v", saved.City)
	}
	if saved.CriteriaFilled != 2 || saved.Completeness != 11 {
		t.Errorf("persisted counters = %d/%d", saved.CriteriaFilled, saved.Completeness)
	}
}

func TestAdvanceConversationEmptyExtractionLeavesProfileUntouched(t *testing.T) {
	store := newFakeStore()
	extractor := &stubExtractor{extraction: &ai.Extraction{
		Criteria: map[string]any{},
		Reply:    "Je n'ai pas compris, cherchez-vous à acheter ou à louer ?",
	}}
	engine := NewEngine(store, extractor, zap.NewNop())
	userID := uuid.New()

	result, err := engine.AdvanceConversation(context.Background(), userID, "hmm")
	if err != nil {
		t.Fatalf("AdvanceConversation: %v", err)
	}

	if store.upserts != 0 {
		t.Errorf("profile written %d times on an empty extraction", store.upserts)
	}
	if result.NextQuestion == nil || result.NextQuestion.Key != "search_type" {
		t.Errorf("NextQuestion = %+v, want search_type", result.NextQuestion)
	}
	if result.CriteriaFilled != 0 {
		t.Errorf("CriteriaFilled = %d, want 0", result.CriteriaFilled)
	}
}

func TestAdvanceConversationPassesContextToExtractor(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	city := "Paris"
	store.profiles[userID] = &models.ConversationalProfile{UserID: userID, City: &city}

	extractor := &stubExtractor{extraction: &ai.Extraction{Criteria: map[string]any{}}}
	engine := NewEngine(store, extractor, zap.NewNop())

	if _, err := engine.AdvanceConversation(context.Background(), userID, "bonjour"); err != nil {
		t.Fatalf("AdvanceConversation: %v", err)
	}

	if extractor.lastKnown["city"] != "Paris" {
		t.Errorf("known criteria = %v, want city=Paris", extractor.lastKnown)
	}
	if extractor.lastQuestion == "" {
		t.Error("next question prompt not forwarded to the extractor")
	}
}

func TestAdvanceConversationRejectsMalformedBatchWhole(t *testing.T) {
	store := newFakeStore()
	extractor := &stubExtractor{extraction: &ai.Extraction{
		Criteria: map[string]any{
			"city":       "Lyon",
			"budget_max": "pas un nombre",
		},
	}}
	engine := NewEngine(store, extractor, zap.NewNop())
	userID := uuid.New()

	_, err := engine.AdvanceConversation(context.Background(), userID, "300k à Lyon")
	if !apperr.IsUpstream(err) {
		t.Fatalf("err = %v, want upstream failure", err)
	}
	if store.upserts != 0 {
		t.Error("partial merge persisted despite malformed batch")
	}
}

func TestAdvanceConversationUpstreamFailure(t *testing.T) {
	store := newFakeStore()
	extractor := &stubExtractor{err: errors.New("quota exceeded")}
	engine := NewEngine(store, extractor, zap.NewNop())

	_, err := engine.AdvanceConversation(context.Background(), uuid.New(), "bonjour")
	if !apperr.IsUpstream(err) {
		t.Fatalf("err = %v, want upstream failure", err)
	}
	if store.upserts != 0 {
		t.Error("profile written despite extraction failure")
	}
}

func TestAdvanceConversationValidation(t *testing.T) {
	engine := NewEngine(newFakeStore(), &stubExtractor{}, zap.NewNop())

	if _, err := engine.AdvanceConversation(context.Background(), uuid.Nil, "bonjour"); !apperr.IsValidation(err) {
		t.Errorf("nil user: err = %v, want validation", err)
	}
	if _, err := engine.AdvanceConversation(context.Background(), uuid.New(), "   "); !apperr.IsValidation(err) {
		t.Errorf("blank message: err = %v, want validation", err)
	}
}

func TestAdvanceConversationNullValuesNeverClearFields(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	city := "Paris"
	store.profiles[userID] = &models.ConversationalProfile{UserID: userID, City: &city, CriteriaFilled: 1, Completeness: 5}

	extractor := &stubExtractor{extraction: &ai.Extraction{
		Criteria: map[string]any{"city": nil, "search_type": "louer"},
	}}
	engine := NewEngine(store, extractor, zap.NewNop())

	result, err := engine.AdvanceConversation(context.Background(), userID, "plutôt louer finalement")
	if err != nil {
		t.Fatalf("AdvanceConversation: %v", err)
	}

	if result.CriteriaFilled != 2 {
		t.Errorf("CriteriaFilled = %d, want 2", result.CriteriaFilled)
	}
	saved := store.profiles[userID]
	if saved.City == nil || *saved.City != "Paris" {
		t.Errorf("City cleared by null extraction value: %v", saved.City)
	}
	if saved.SearchType == nil || *saved.SearchType != "louer" {
		t.Errorf("SearchType = %v, want louer", saved.SearchType)
	}
}

func TestAdvanceConversationCompleteProfileStillAcceptsEdits(t *testing.T) {
	store := newFakeStore()
	p := fullProfile()
	store.profiles[p.UserID] = p

	extractor := &stubExtractor{extraction: &ai.Extraction{
		Criteria: map[string]any{"budget_max": float64(400000)},
		Reply:    "Budget mis à jour.",
	}}
	engine := NewEngine(store, extractor, zap.NewNop())

	result, err := engine.AdvanceConversation(context.Background(), p.UserID, "finalement 400 000")
	if err != nil {
		t.Fatalf("AdvanceConversation: %v", err)
	}

	if !result.AllCriteriaFilled {
		t.Error("AllCriteriaFilled should stay true")
	}
	if result.NextQuestion != nil {
		t.Errorf("NextQuestion = %+v on a complete profile", result.NextQuestion)
	}
	saved := store.profiles[p.UserID]
	if saved.BudgetMax == nil || *saved.BudgetMax != 400000 {
		t.Errorf("BudgetMax = %v, want 400000", saved.BudgetMax)
	}
}
