package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Arthurlmr/weleev-sub000/apperr"
	"github.com/Arthurlmr/weleev-sub000/models"
	"github.com/Arthurlmr/weleev-sub000/storage"
)

// Service scores listings for users, serving cached records while they
// are still within the validity window.
type Service struct {
	store   storage.Store
	weights Weights
	ttl     time.Duration
	logger  *zap.Logger
}

func NewService(store storage.Store, weights Weights, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{store: store, weights: weights, ttl: ttl, logger: logger}
}

// ScoreListing returns the score record for (user, listing). An
// existing record younger than the TTL is returned verbatim with the
// cache flag set; otherwise the score is recomputed and upserted.
// A missing listing is a not-found error; missing criteria or profile
// only degrade sub-scores to their neutral defaults.
func (s *Service) ScoreListing(ctx context.Context, userID, listingID uuid.UUID) (*models.ScoreRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id is required", apperr.ErrValidation)
	}
	if listingID == uuid.Nil {
		return nil, fmt.Errorf("%w: listing_id is required", apperr.ErrValidation)
	}

	existing, err := s.store.GetScore(ctx, userID, listingID)
	if err != nil {
		return nil, fmt.Errorf("load score: %w", err)
	}
	if existing != nil && time.Since(existing.UpdatedAt) < s.ttl {
		existing.Cached = true
		s.logger.Debug("score served from cache",
			zap.String("user_id", userID.String()),
			zap.String("listing_id", listingID.String()),
			zap.Float64("score", existing.Score),
		)
		return existing, nil
	}

	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("load listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: listing %s", apperr.ErrNotFound, listingID)
	}

	criteria, err := s.store.LatestSearchCriteria(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load search criteria: %w", err)
	}
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	score, criteriaSub, lifestyleSub, valueSub, bonusSub, badge, reason := Compute(listing, criteria, profile, s.weights)

	record := &models.ScoreRecord{
		UserID:         userID,
		ListingID:      listingID,
		Score:          score,
		CriteriaScore:  criteriaSub,
		LifestyleScore: lifestyleSub,
		ValueScore:     valueSub,
		BonusScore:     bonusSub,
		Badge:          badge,
		Reason:         reason,
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.store.UpsertScore(ctx, record); err != nil {
		return nil, fmt.Errorf("save score: %w", err)
	}

	s.logger.Info("listing scored",
		zap.String("user_id", userID.String()),
		zap.String("listing_id", listingID.String()),
		zap.Float64("score", score),
		zap.String("badge", string(badge)),
	)

	return record, nil
}
