package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Arthurlmr/weleev-sub000/models"
)

// Store is the persistence surface the services depend on. Both the
// Postgres and the SQLite implementations satisfy it; lookups return
// (nil, nil) when the record does not exist.
type Store interface {
	CreateSearchCriteria(ctx context.Context, c *models.SearchCriteria) error
	LatestSearchCriteria(ctx context.Context, userID uuid.UUID) (*models.SearchCriteria, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.ConversationalProfile, error)
	UpsertProfile(ctx context.Context, p *models.ConversationalProfile) error

	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)

	GetScore(ctx context.Context, userID, listingID uuid.UUID) (*models.ScoreRecord, error)
	UpsertScore(ctx context.Context, rec *models.ScoreRecord) error
	DeleteExpiredScores(ctx context.Context, olderThan time.Time) (int64, error)

	GetInsight(ctx context.Context, userID, listingID uuid.UUID) (*models.ListingInsight, error)
	UpsertInsight(ctx context.Context, ins *models.ListingInsight) error
	DeleteExpiredInsights(ctx context.Context, olderThan time.Time) (int64, error)

	Close()
}
