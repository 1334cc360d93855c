package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "appartement"
	PropertyTypeHouse     PropertyType = "maison"
	PropertyTypeAny       PropertyType = "indifferent"
)

// SearchCriteria is the structured record produced at onboarding
// completion. Rows are append-only; the most recent row per user wins.
type SearchCriteria struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	Location     string       `json:"location" db:"location"`
	PropertyType PropertyType `json:"property_type" db:"property_type"`
	MaxBudget    int          `json:"max_budget" db:"max_budget"`
	MinRooms     int          `json:"min_rooms" db:"min_rooms"`
	WantsParking bool         `json:"wants_parking" db:"wants_parking"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
