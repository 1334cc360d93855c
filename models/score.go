package models

import (
	"time"

	"github.com/google/uuid"
)

type Badge string

const (
	BadgeFavorite    Badge = "favorite"
	BadgeRecommended Badge = "recommended"
	BadgeTrending    Badge = "trending"
	BadgeNone        Badge = ""
)

// ScoreRecord is the personalized 0-10 match score for one
// (user, listing) pair. One row per pair, overwritten whenever the
// existing row is missing or older than the cache validity window.
type ScoreRecord struct {
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	ListingID      uuid.UUID `json:"listing_id" db:"listing_id"`
	Score          float64   `json:"score" db:"score"`
	CriteriaScore  float64   `json:"criteria_score" db:"criteria_score"`
	LifestyleScore float64   `json:"lifestyle_score" db:"lifestyle_score"`
	ValueScore     float64   `json:"value_score" db:"value_score"`
	BonusScore     float64   `json:"bonus_score" db:"bonus_score"`
	Badge          Badge     `json:"badge" db:"badge"`
	Reason         string    `json:"reason" db:"reason"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	// Cached is not persisted; true when the record was served from
	// the still-valid previous computation.
	Cached bool `json:"cached" db:"-"`
}

// ListingInsight is the AI-generated commentary for one
// (user, listing) pair: condition assessment, financial simulation
// and market comparison. Cached the same way scores are.
type ListingInsight struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ListingID uuid.UUID `json:"listing_id" db:"listing_id"`
	Condition string    `json:"condition" db:"condition"`
	Financial string    `json:"financial" db:"financial"`
	Market    string    `json:"market" db:"market"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Cached bool `json:"cached" db:"-"`
}
