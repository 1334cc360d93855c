// Package enrichment produces the AI-generated listing insight for a
// user: condition assessment, financial simulation and market
// comparison, cached with the same validity window as scores.
package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/ai"
	"github.com/Arthurlmr/weleev-sub000/apperr"
	"github.com/Arthurlmr/weleev-sub000/models"
	"github.com/Arthurlmr/weleev-sub000/storage"
)

type Service struct {
	store      storage.Store
	commentary ai.CommentaryProvider
	ttl        time.Duration
	logger     *zap.Logger
}

func NewService(store storage.Store, commentary ai.CommentaryProvider, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{store: store, commentary: commentary, ttl: ttl, logger: logger}
}

// GetInsight returns the insight for (user, listing), regenerating it
// through the commentary provider when the cached copy is missing or
// stale. A missing listing is a not-found error; a missing profile is
// fine, the commentary simply loses personalization.
func (s *Service) GetInsight(ctx context.Context, userID, listingID uuid.UUID) (*models.ListingInsight, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id is required", apperr.ErrValidation)
	}
	if listingID == uuid.Nil {
		return nil, fmt.Errorf("%w: listing_id is required", apperr.ErrValidation)
	}

	existing, err := s.store.GetInsight(ctx, userID, listingID)
	if err != nil {
		return nil, fmt.Errorf("load insight: %w", err)
	}
	if existing != nil && time.Since(existing.UpdatedAt) < s.ttl {
		existing.Cached = true
		return existing, nil
	}

	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("load listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: listing %s", apperr.ErrNotFound, listingID)
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	commentary, err := s.commentary.ListingCommentary(ctx, listing, profile)
	if err != nil {
		return nil, fmt.Errorf("%w: listing commentary: %v", apperr.ErrUpstream, err)
	}

	insight := &models.ListingInsight{
		UserID:    userID,
		ListingID: listingID,
		Condition: commentary.Condition,
		Financial: commentary.Financial,
		Market:    commentary.Market,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.store.UpsertInsight(ctx, insight); err != nil {
		return nil, fmt.Errorf("save insight: %w", err)
	}

	s.logger.Info("listing insight generated",
		zap.String("user_id", userID.String()),
		zap.String("listing_id", listingID.String()),
	)

	return insight, nil
}
