package models

import (
	"time"

	"github.com/google/uuid"
)

// Evasive answers ("peu importe") still fill their field with this
// explicit token so the completeness counter can tell "no preference"
// apart from "never asked".
const NoPreference = "indifferent"

// ConversationalProfile holds the 19 interview criteria for one user.
// Every field is independently nullable: a nil pointer or empty slice
// means the question has not been answered yet. CriteriaFilled and
// Completeness are derived and recomputed on every write.
type ConversationalProfile struct {
	UserID uuid.UUID `json:"user_id" db:"user_id"`

	SearchType           *string  `json:"search_type" db:"search_type"`
	PropertyTypes        []string `json:"property_types" db:"property_types"`
	City                 *string  `json:"city" db:"city"`
	Neighborhoods        []string `json:"neighborhoods" db:"neighborhoods"`
	BudgetMax            *int     `json:"budget_max" db:"budget_max"`
	SurfaceMin           *int     `json:"surface_min" db:"surface_min"`
	BedroomsMin          *int     `json:"bedrooms_min" db:"bedrooms_min"`
	FloorPreference      *string  `json:"floor_preference" db:"floor_preference"`
	OutdoorSpace         *string  `json:"outdoor_space" db:"outdoor_space"`
	Parking              *string  `json:"parking" db:"parking"`
	PropertyStates       []string `json:"property_states" db:"property_states"`
	DetachedOnly         *bool    `json:"detached_only" db:"detached_only"`
	VisAVis              *string  `json:"vis_a_vis" db:"vis_a_vis"`
	Orientation          *string  `json:"orientation" db:"orientation"`
	ProximityPriorities  []string `json:"proximity_priorities" db:"proximity_priorities"`
	RenovationAcceptance *string  `json:"renovation_acceptance" db:"renovation_acceptance"`
	ChargesMax           *int     `json:"charges_max" db:"charges_max"`
	CurrentOwner         *bool    `json:"current_owner" db:"current_owner"`
	PropertyUsage        *string  `json:"property_usage" db:"property_usage"`

	CriteriaFilled int       `json:"criteria_filled" db:"criteria_filled"`
	Completeness   int       `json:"profile_completeness_score" db:"profile_completeness_score"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// NewConversationalProfile returns an empty profile for the user.
func NewConversationalProfile(userID uuid.UUID) *ConversationalProfile {
	return &ConversationalProfile{UserID: userID}
}
