package models

import (
	"time"

	"github.com/google/uuid"
)

type RenovationStatus string

const (
	RenovationNew       RenovationStatus = "neuf"
	RenovationRenovated RenovationStatus = "renove"
	RenovationToRestore RenovationStatus = "a_renover"
)

// Listing is a property advertisement. It is read-only for this
// service: rows are fed by the ingestion pipeline and only consulted
// for scoring and enrichment.
type Listing struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	Title            string           `json:"title" db:"title"`
	City             string           `json:"city" db:"city"`
	PropertyType     string           `json:"property_type" db:"property_type"`
	Price            float64          `json:"price" db:"price"`
	Surface          float64          `json:"surface" db:"surface"`
	Rooms            int              `json:"rooms" db:"rooms"`
	Description      string           `json:"description" db:"description"`
	LandSurface      float64          `json:"land_surface" db:"land_surface"`
	PricePerSqm      *float64         `json:"price_per_sqm" db:"price_per_sqm"`
	EnergyClass      string           `json:"energy_class" db:"energy_class"`
	ConstructionYear *int             `json:"construction_year" db:"construction_year"`
	Renovation       RenovationStatus `json:"renovation_status" db:"renovation_status"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}
