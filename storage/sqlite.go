package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Arthurlmr/weleev-sub000/models"
)

// SQLiteStore is the local development store. It mirrors the Postgres
// schema closely enough for the services to be backend-agnostic; set
// columns are stored as JSON text.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_criteria (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		location TEXT,
		property_type TEXT,
		max_budget INTEGER,
		min_rooms INTEGER,
		wants_parking BOOLEAN DEFAULT FALSE,
		created_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_search_criteria_user ON search_criteria(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS conversational_profiles (
		user_id TEXT PRIMARY KEY,
		search_type TEXT,
		property_types JSON,
		city TEXT,
		neighborhoods JSON,
		budget_max INTEGER,
		surface_min INTEGER,
		bedrooms_min INTEGER,
		floor_preference TEXT,
		outdoor_space TEXT,
		parking TEXT,
		property_states JSON,
		detached_only BOOLEAN,
		vis_a_vis TEXT,
		orientation TEXT,
		proximity_priorities JSON,
		renovation_acceptance TEXT,
		charges_max INTEGER,
		current_owner BOOLEAN,
		property_usage TEXT,
		criteria_filled INTEGER DEFAULT 0,
		profile_completeness_score INTEGER DEFAULT 0,
		updated_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		title TEXT,
		city TEXT,
		property_type TEXT,
		price REAL,
		surface REAL,
		rooms INTEGER,
		description TEXT,
		land_surface REAL DEFAULT 0,
		price_per_sqm REAL,
		energy_class TEXT,
		construction_year INTEGER,
		renovation_status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS listing_scores (
		user_id TEXT NOT NULL,
		listing_id TEXT NOT NULL,
		score REAL,
		criteria_score REAL,
		lifestyle_score REAL,
		value_score REAL,
		bonus_score REAL,
		badge TEXT DEFAULT '',
		reason TEXT,
		updated_at DATETIME,
		PRIMARY KEY (user_id, listing_id)
	);

	CREATE TABLE IF NOT EXISTS listing_insights (
		user_id TEXT NOT NULL,
		listing_id TEXT NOT NULL,
		condition TEXT,
		financial TEXT,
		market TEXT,
		updated_at DATETIME,
		PRIMARY KEY (user_id, listing_id)
	);`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateSearchCriteria(ctx context.Context, c *models.SearchCriteria) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_criteria (id, user_id, location, property_type, max_budget, min_rooms, wants_parking, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Location, c.PropertyType, c.MaxBudget, c.MinRooms, c.WantsParking, c.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) LatestSearchCriteria(ctx context.Context, userID uuid.UUID) (*models.SearchCriteria, error) {
	var c models.SearchCriteria
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, location, property_type, max_budget, min_rooms, wants_parking, created_at
		FROM search_criteria WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`, userID,
	).Scan(&c.ID, &c.UserID, &c.Location, &c.PropertyType, &c.MaxBudget, &c.MinRooms, &c.WantsParking, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ConversationalProfile, error) {
	var p models.ConversationalProfile
	var propertyTypes, neighborhoods, propertyStates, proximityPriorities []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, search_type, property_types, city, neighborhoods, budget_max,
			surface_min, bedrooms_min, floor_preference, outdoor_space, parking,
			property_states, detached_only, vis_a_vis, orientation, proximity_priorities,
			renovation_acceptance, charges_max, current_owner, property_usage,
			criteria_filled, profile_completeness_score, updated_at
		FROM conversational_profiles WHERE user_id = ?`, userID,
	).Scan(
		&p.UserID, &p.SearchType, &propertyTypes, &p.City, &neighborhoods, &p.BudgetMax,
		&p.SurfaceMin, &p.BedroomsMin, &p.FloorPreference, &p.OutdoorSpace, &p.Parking,
		&propertyStates, &p.DetachedOnly, &p.VisAVis, &p.Orientation, &proximityPriorities,
		&p.RenovationAcceptance, &p.ChargesMax, &p.CurrentOwner, &p.PropertyUsage,
		&p.CriteriaFilled, &p.Completeness, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
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

func (s *SQLiteStore) UpsertProfile(ctx context.Context, p *models.ConversationalProfile) error {
	propertyTypes, neighborhoods, propertyStates, proximityPriorities, err := encodeSets(p)
	if err != nil {
		return fmt.Errorf("encode profile sets: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversational_profiles (
			user_id, search_type, property_types, city, neighborhoods, budget_max,
			surface_min, bedrooms_min, floor_preference, outdoor_space, parking,
			property_states, detached_only, vis_a_vis, orientation, proximity_priorities,
			renovation_acceptance, charges_max, current_owner, property_usage,
			criteria_filled, profile_completeness_score, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			search_type = excluded.search_type,
			property_types = excluded.property_types,
			city = excluded.city,
			neighborhoods = excluded.neighborhoods,
			budget_max = excluded.budget_max,
			surface_min = excluded.surface_min,
			bedrooms_min = excluded.bedrooms_min,
			floor_preference = excluded.floor_preference,
			outdoor_space = excluded.outdoor_space,
			parking = excluded.parking,
			property_states = excluded.property_states,
			detached_only = excluded.detached_only,
			vis_a_vis = excluded.vis_a_vis,
			orientation = excluded.orientation,
			proximity_priorities = excluded.proximity_priorities,
			renovation_acceptance = excluded.renovation_acceptance,
			charges_max = excluded.charges_max,
			current_owner = excluded.current_owner,
			property_usage = excluded.property_usage,
			criteria_filled = excluded.criteria_filled,
			profile_completeness_score = excluded.profile_completeness_score,
			updated_at = excluded.updated_at`,
		p.UserID, p.SearchType, propertyTypes, p.City, neighborhoods, p.BudgetMax,
		p.SurfaceMin, p.BedroomsMin, p.FloorPreference, p.OutdoorSpace, p.Parking,
		propertyStates, p.DetachedOnly, p.VisAVis, p.Orientation, proximityPriorities,
		p.RenovationAcceptance, p.ChargesMax, p.CurrentOwner, p.PropertyUsage,
		p.CriteriaFilled, p.Completeness, p.UpdatedAt,
	)
	return err
}

func (s *SQLiteStore) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, city, property_type, price, surface, rooms, description,
			land_surface, price_per_sqm, energy_class, construction_year,
			renovation_status, created_at, updated_at
		FROM listings WHERE id = ?`, id,
	).Scan(
		&l.ID, &l.Title, &l.City, &l.PropertyType, &l.Price, &l.Surface, &l.Rooms, &l.Description,
		&l.LandSurface, &l.PricePerSqm, &l.EnergyClass, &l.ConstructionYear,
		&l.Renovation, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *SQLiteStore) GetScore(ctx context.Context, userID, listingID uuid.UUID) (*models.ScoreRecord, error) {
	var rec models.ScoreRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, listing_id, score, criteria_score, lifestyle_score, value_score,
			bonus_score, badge, reason, updated_at
		FROM listing_scores WHERE user_id = ? AND listing_id = ?`, userID, listingID,
	).Scan(
		&rec.UserID, &rec.ListingID, &rec.Score, &rec.CriteriaScore, &rec.LifestyleScore,
		&rec.ValueScore, &rec.BonusScore, &rec.Badge, &rec.Reason, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) UpsertScore(ctx context.Context, rec *models.ScoreRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listing_scores (
			user_id, listing_id, score, criteria_score, lifestyle_score, value_score,
			bonus_score, badge, reason, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, listing_id) DO UPDATE SET
			score = excluded.score,
			criteria_score = excluded.criteria_score,
			lifestyle_score = excluded.lifestyle_score,
			value_score = excluded.value_score,
			bonus_score = excluded.bonus_score,
			badge = excluded.badge,
			reason = excluded.reason,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.ListingID, rec.Score, rec.CriteriaScore, rec.LifestyleScore,
		rec.ValueScore, rec.BonusScore, rec.Badge, rec.Reason, rec.UpdatedAt,
	)
	return err
}

func (s *SQLiteStore) DeleteExpiredScores(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM listing_scores WHERE updated_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) GetInsight(ctx context.Context, userID, listingID uuid.UUID) (*models.ListingInsight, error) {
	var ins models.ListingInsight
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, listing_id, condition, financial, market, updated_at
		FROM listing_insights WHERE user_id = ? AND listing_id = ?`, userID, listingID,
	).Scan(&ins.UserID, &ins.ListingID, &ins.Condition, &ins.Financial, &ins.Market, &ins.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

func (s *SQLiteStore) UpsertInsight(ctx context.Context, ins *models.ListingInsight) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listing_insights (user_id, listing_id, condition, financial, market, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, listing_id) DO UPDATE SET
			condition = excluded.condition,
			financial = excluded.financial,
			market = excluded.market,
			updated_at = excluded.updated_at`,
		ins.UserID, ins.ListingID, ins.Condition, ins.Financial, ins.Market, ins.UpdatedAt,
	)
	return err
}

func (s *SQLiteStore) DeleteExpiredInsights(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM listing_insights WHERE updated_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
