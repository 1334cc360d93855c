package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/models"
)

func TestListingCommentaryParsesResponse(t *testing.T) {
	gen := &stubGenerator{response: `{
		"condition": "Bien rénové, DPE C.",
		"financial": "Environ 1 200 €/mois sur 25 ans.",
		"market": "Prix au m² dans la moyenne du quartier."
	}`}
	provider := NewCommentaryProvider(gen, zap.NewNop())

	listing := &models.Listing{ID: uuid.New(), Title: "T3 lumineux", City: "Lyon", Price: 280000}
	commentary, err := provider.ListingCommentary(context.Background(), listing, nil)
	if err != nil {
		t.Fatalf("ListingCommentary: %v", err)
	}

	if commentary.Condition != "Bien rénové, DPE C." {
		t.Errorf("Condition = %q", commentary.Condition)
	}
	if commentary.Financial == "" || commentary.Market == "" {
		t.Error("financial or market section missing")
	}
	if !strings.Contains(gen.lastPrompt, "T3 lumineux") {
		t.Error("prompt does not carry the listing")
	}
}

func TestListingCommentaryIncludesProfile(t *testing.T) {
	gen := &stubGenerator{response: `{"condition": "a", "financial": "b", "market": "c"}`}
	provider := NewCommentaryProvider(gen, zap.NewNop())

	budget := 300000
	profile := &models.ConversationalProfile{UserID: uuid.New(), BudgetMax: &budget}
	listing := &models.Listing{ID: uuid.New(), Title: "Maison"}

	if _, err := provider.ListingCommentary(context.Background(), listing, profile); err != nil {
		t.Fatalf("ListingCommentary: %v", err)
	}
	if !strings.Contains(gen.lastPrompt, "300000") {
		t.Error("prompt does not carry the profile budget")
	}
}

func TestListingCommentaryNilListing(t *testing.T) {
	provider := NewCommentaryProvider(&stubGenerator{}, zap.NewNop())

	if _, err := provider.ListingCommentary(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for nil listing")
	}
}

func TestListingCommentaryUnparsableResponse(t *testing.T) {
	gen := &stubGenerator{response: "pas de JSON ici"}
	provider := NewCommentaryProvider(gen, zap.NewNop())

	listing := &models.Listing{ID: uuid.New()}
	if _, err := provider.ListingCommentary(context.Background(), listing, nil); err == nil {
		t.Fatal("expected parse error")
	}
}
