package database

import (
	"database/sql"
	"fmt"

	"real-estate-marketplace/internal/models"

	_ "github.com/lib/pq"
)

// DB is the legacy PostgreSQL path. It serves the reduced public catalog
// (Available listings and analytics tracking) when the primary GORM/MySQL
// store is not configured; moderation, favorites and notifications require
// the GORM path.
type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname string) (*DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the catalog tables if they don't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		id SERIAL PRIMARY KEY,
		reference_code VARCHAR(20) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL,
		slug VARCHAR(255) UNIQUE,
		description TEXT,

		-- Filter fields
		price DECIMAL(15, 2) NOT NULL,
		area_sqm INTEGER NOT NULL,
		offer_type VARCHAR(10) NOT NULL DEFAULT 'Sale',
		status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		is_finance_eligible BOOLEAN NOT NULL DEFAULT FALSE,

		governorate_id INTEGER,
		city_id INTEGER,
		major_zone_id INTEGER,
		subdivision_id INTEGER,
		category_id INTEGER,
		agent_id INTEGER,

		thumbnail_url VARCHAR(500),

		views_count INTEGER NOT NULL DEFAULT 0,
		whatsapp_clicks INTEGER NOT NULL DEFAULT 0,
		call_clicks INTEGER NOT NULL DEFAULT 0,

		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id SERIAL PRIMARY KEY,
		event_type VARCHAR(20) NOT NULL,
		listing_id INTEGER,
		promotion_id INTEGER,
		user_id INTEGER,
		ip_address VARCHAR(45),
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Indexes for filtering
	CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
	CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);
	CREATE INDEX IF NOT EXISTS idx_events_event_type ON analytics_events(event_type);
	`
	_, err := db.conn.Exec(query)
	return err
}

const legacyListingColumns = `
	id, reference_code, title, COALESCE(slug, ''), COALESCE(description, ''),
	price, area_sqm, offer_type, status, is_finance_eligible,
	COALESCE(thumbnail_url, ''), views_count, whatsapp_clicks, call_clicks,
	created_at, updated_at`

// GetAvailableListings returns one page of the public catalog, newest first.
func (db *DB) GetAvailableListings(limit, offset int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	rows, err := db.conn.Query(`
	SELECT `+legacyListingColumns+`
	FROM listings
	WHERE status = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`,
		models.ListingStatusAvailable, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		listing, err := scanLegacyListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

// GetAvailableListingByID returns one Available listing, or sql.ErrNoRows.
func (db *DB) GetAvailableListingByID(id uint) (*models.Listing, error) {
	row := db.conn.QueryRow(`
	SELECT `+legacyListingColumns+`
	FROM listings
	WHERE id = $1 AND status = $2`,
		id, models.ListingStatusAvailable)
	return scanLegacyListing(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLegacyListing(row rowScanner) (*models.Listing, error) {
	var l models.Listing
	if err := row.Scan(
		&l.ID, &l.ReferenceCode, &l.Title, &l.Slug, &l.Description,
		&l.Price, &l.AreaSqm, &l.OfferType, &l.Status, &l.IsFinanceEligible,
		&l.ThumbnailURL, &l.ViewsCount, &l.WhatsappClicks, &l.CallClicks,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

// TrackListingEvent appends an analytics event row and bumps the counter
// column in one transaction. The increment is a relative UPDATE so that
// concurrent tracking calls cannot lose updates. Returns sql.ErrNoRows when
// the listing does not exist; nothing is written in that case.
func (db *DB) TrackListingEvent(listingID uint, counterColumn string, eventType models.AnalyticsEventType, userID *uint, ip string) error {
	switch counterColumn {
	case "views_count", "whatsapp_clicks", "call_clicks":
	default:
		return fmt.Errorf("unknown counter column %q", counterColumn)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}

	result, err := tx.Exec(
		`UPDATE listings SET `+counterColumn+` = `+counterColumn+` + 1 WHERE id = $1`,
		listingID)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(`
	INSERT INTO analytics_events (event_type, listing_id, user_id, ip_address)
	VALUES ($1, $2, $3, $4)`,
		eventType, listingID, userID, nullableIP(ip)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func nullableIP(ip string) interface{} {
	if ip == "" {
		return nil
	}
	return ip
}

// LegacyCounterFor maps a client event kind to the listing counter column and
// the stored log event type. The legacy store only tracks listings.
func LegacyCounterFor(kind string) (string, models.AnalyticsEventType, bool) {
	switch kind {
	case "VIEW":
		return "views_count", models.EventViewListing, true
	case "WHATSAPP":
		return "whatsapp_clicks", models.EventClickWhatsapp, true
	case "CALL":
		return "call_clicks", models.EventClickCall, true
	}
	return "", "", false
}
