package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arthurlmr/weleev-sub000/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// =============================================================================
// Search criteria
// =============================================================================

func (s *PostgresStore) CreateSearchCriteria(ctx context.Context, c *models.SearchCriteria) error {
	query := `
		INSERT INTO search_criteria (id, user_id, location, property_type, max_budget, min_rooms, wants_parking, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		c.ID, c.UserID, c.Location, c.PropertyType, c.MaxBudget, c.MinRooms, c.WantsParking, c.CreatedAt,
	)
	return err
}

func (s *PostgresStore) LatestSearchCriteria(ctx context.Context, userID uuid.UUID) (*models.SearchCriteria, error) {
	query := `
		SELECT id, user_id, location, property_type, max_budget, min_rooms, wants_parking, created_at
		FROM search_criteria
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var c models.SearchCriteria
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.Location, &c.PropertyType, &c.MaxBudget, &c.MinRooms, &c.WantsParking, &c.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// =============================================================================
// Conversational profiles
// =============================================================================

func (s *PostgresStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ConversationalProfile, error) {
	query := `
		SELECT user_id, search_type, property_types, city, neighborhoods, budget_max,
			surface_min, bedrooms_min, floor_preference, outdoor_space, parking,
			property_states, detached_only, vis_a_vis, orientation, proximity_priorities,
			renovation_acceptance, charges_max, current_owner, property_usage,
			criteria_filled, profile_completeness_score, updated_at
		FROM conversational_profiles WHERE user_id = $1`

	var p models.ConversationalProfile
	var propertyTypes, neighborhoods, propertyStates, proximityPriorities []byte
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.SearchType, &propertyTypes, &p.City, &neighborhoods, &p.BudgetMax,
		&p.SurfaceMin, &p.BedroomsMin, &p.FloorPreference, &p.OutdoorSpace, &p.Parking,
		&propertyStates, &p.DetachedOnly, &p.VisAVis, &p.Orientation, &proximityPriorities,
		&p.RenovationAcceptance, &p.ChargesMax, &p.CurrentOwner, &p.PropertyUsage,
		&p.CriteriaFilled, &p.Completeness, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := decodeSets(&p, propertyTypes, neighborhoods, propertyStates, proximityPriorities); err != nil {
		return nil, fmt.Errorf("decode profile sets: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, p *models.ConversationalProfile) error {
	propertyTypes, neighborhoods, propertyStates, proximityPriorities, err := encodeSets(p)
	if err != nil {
		return fmt.Errorf("encode profile sets: %w", err)
	}

	query := `
		INSERT INTO conversational_profiles (
			user_id, search_type, property_types, city, neighborhoods, budget_max,
			surface_min, bedrooms_min, floor_preference, outdoor_space, parking,
			property_states, detached_only, vis_a_vis, orientation, proximity_priorities,
			renovation_acceptance, charges_max, current_owner, property_usage,
			criteria_filled, profile_completeness_score, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
		ON CONFLICT (user_id) DO UPDATE SET
			search_type = EXCLUDED.search_type,
			property_types = EXCLUDED.property_types,
			city = EXCLUDED.city,
			neighborhoods = EXCLUDED.neighborhoods,
			budget_max = EXCLUDED.budget_max,
			surface_min = EXCLUDED.surface_min,
			bedrooms_min = EXCLUDED.bedrooms_min,
			floor_preference = EXCLUDED.floor_preference,
			outdoor_space = EXCLUDED.outdoor_space,
			parking = EXCLUDED.parking,
			property_states = EXCLUDED.property_states,
			detached_only = EXCLUDED.detached_only,
			vis_a_vis = EXCLUDED.vis_a_vis,
			orientation = EXCLUDED.orientation,
			proximity_priorities = EXCLUDED.proximity_priorities,
			renovation_acceptance = EXCLUDED.renovation_acceptance,
			charges_max = EXCLUDED.charges_max,
			current_owner = EXCLUDED.current_owner,
			property_usage = EXCLUDED.property_usage,
			criteria_filled = EXCLUDED.criteria_filled,
			profile_completeness_score = EXCLUDED.profile_completeness_score,
			updated_at = EXCLUDED.updated_at`

	_, err = s.pool.Exec(ctx, query,
		p.UserID, p.SearchType, propertyTypes, p.City, neighborhoods, p.BudgetMax,
		p.SurfaceMin, p.BedroomsMin, p.FloorPreference, p.OutdoorSpace, p.Parking,
		propertyStates, p.DetachedOnly, p.VisAVis, p.Orientation, proximityPriorities,
		p.RenovationAcceptance, p.ChargesMax, p.CurrentOwner, p.PropertyUsage,
		p.CriteriaFilled, p.Completeness, p.UpdatedAt,
	)
	return err
}

// =============================================================================
// Listings
// =============================================================================

func (s *PostgresStore) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	query := `
		SELECT id, title, city, property_type, price, surface, rooms, description,
			land_surface, price_per_sqm, energy_class, construction_year,
			renovation_status, created_at, updated_at
		FROM listings WHERE id = $1`

	var l models.Listing
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Title, &l.City, &l.PropertyType, &l.Price, &l.Surface, &l.Rooms, &l.Description,
		&l.LandSurface, &l.PricePerSqm, &l.EnergyClass, &l.ConstructionYear,
		&l.Renovation, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// =============================================================================
// Score records
// =============================================================================

func (s *PostgresStore) GetScore(ctx context.Context, userID, listingID uuid.UUID) (*models.ScoreRecord, error) {
	query := `
		SELECT user_id, listing_id, score, criteria_score, lifestyle_score, value_score,
			bonus_score, badge, reason, updated_at
		FROM listing_scores WHERE user_id = $1 AND listing_id = $2`

	var rec models.ScoreRecord
	err := s.pool.QueryRow(ctx, query, userID, listingID).Scan(
		&rec.UserID, &rec.ListingID, &rec.Score, &rec.CriteriaScore, &rec.LifestyleScore,
		&rec.ValueScore, &rec.BonusScore, &rec.Badge, &rec.Reason, &rec.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) UpsertScore(ctx context.Context, rec *models.ScoreRecord) error {
	query := `
		INSERT INTO listing_scores (
			user_id, listing_id, score, criteria_score, lifestyle_score, value_score,
			bonus_score, badge, reason, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, listing_id) DO UPDATE SET
			score = EXCLUDED.score,
			criteria_score = EXCLUDED.criteria_score,
			lifestyle_score = EXCLUDED.lifestyle_score,
			value_score = EXCLUDED.value_score,
			bonus_score = EXCLUDED.bonus_score,
			badge = EXCLUDED.badge,
			reason = EXCLUDED.reason,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		rec.UserID, rec.ListingID, rec.Score, rec.CriteriaScore, rec.LifestyleScore,
		rec.ValueScore, rec.BonusScore, rec.Badge, rec.Reason, rec.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) DeleteExpiredScores(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM listing_scores WHERE updated_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// =============================================================================
// Listing insights
// =============================================================================

func (s *PostgresStore) GetInsight(ctx context.Context, userID, listingID uuid.UUID) (*models.ListingInsight, error) {
	query := `
		SELECT user_id, listing_id, condition, financial, market, updated_at
		FROM listing_insights WHERE user_id = $1 AND listing_id = $2`

	var ins models.ListingInsight
	err := s.pool.QueryRow(ctx, query, userID, listingID).Scan(
		&ins.UserID, &ins.ListingID, &ins.Condition, &ins.Financial, &ins.Market, &ins.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

func (s *PostgresStore) UpsertInsight(ctx context.Context, ins *models.ListingInsight) error {
	query := `
		INSERT INTO listing_insights (user_id, listing_id, condition, financial, market, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, listing_id) DO UPDATE SET
			condition = EXCLUDED.condition,
			financial = EXCLUDED.financial,
			market = EXCLUDED.market,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		ins.UserID, ins.ListingID, ins.Condition, ins.Financial, ins.Market, ins.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) DeleteExpiredInsights(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM listing_insights WHERE updated_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// =============================================================================
// Set column helpers (jsonb columns <-> []string)
// =============================================================================

func encodeSets(p *models.ConversationalProfile) (propertyTypes, neighborhoods, propertyStates, proximityPriorities []byte, err error) {
	if propertyTypes, err = encodeSet(p.PropertyTypes); err != nil {
		return
	}
	if neighborhoods, err = encodeSet(p.Neighborhoods); err != nil {
		return
	}
	if propertyStates, err = encodeSet(p.PropertyStates); err != nil {
		return
	}
	proximityPriorities, err = encodeSet(p.ProximityPriorities)
	return
}

func decodeSets(p *models.ConversationalProfile, propertyTypes, neighborhoods, propertyStates, proximityPriorities []byte) error {
	if err := decodeSet(propertyTypes, &p.PropertyTypes); err != nil {
		return err
	}
	if err := decodeSet(neighborhoods, &p.Neighborhoods); err != nil {
		return err
	}
	if err := decodeSet(propertyStates, &p.PropertyStates); err != nil {
		return err
	}
	return decodeSet(proximityPriorities, &p.ProximityPriorities)
}

func encodeSet(values []string) ([]byte, error) {
	if values == nil {
		return nil, nil
	}
	return json.Marshal(values)
}

func decodeSet(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}
