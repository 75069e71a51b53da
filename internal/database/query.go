package database

import (
	"fmt"
	"strings"

	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// ListingQuery is everything needed to produce one page of listings: the
// caller (for status scoping), the action, and the caller-supplied filters.
type ListingQuery struct {
	Caller  Caller
	Action  ListingAction
	Filters ListingFilters
	Clauses []FeatureClause
	Search  string
	// Ordering fields, optionally "-" prefixed for descending. Unknown
	// fields are ignored; creation time descending is the stable default.
	Ordering []string
	Limit    int
	Offset   int
}

// ListingPage is one page of query results.
type ListingPage struct {
	Count   int64            `json:"count"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Results []models.Listing `json:"results"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// orderableFields whitelists caller-specified ordering columns.
var orderableFields = map[string]string{
	"price":       "listings.price",
	"created_at":  "listings.created_at",
	"area_sqm":    "listings.area_sqm",
	"views_count": "listings.views_count",
}

var listingPreloads = []string{
	"Governorate", "City", "MajorZone", "Subdivision",
	"Category", "Agent", "Images", "FeatureValues", "FeatureValues.Feature",
}

// QueryListings runs the visibility-scoped, filtered listing query and
// returns one page of distinct listings.
func (gdb *GormDB) QueryListings(q ListingQuery) (*ListingPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	base := func() *gorm.DB {
		tx := gdb.db.Model(&models.Listing{})
		tx = applyStatusScope(tx, q.Caller, q.Action)
		tx = applyFilters(tx, q.Filters)
		tx = applySearch(tx, q.Search)
		tx = applyFeatureClauses(tx, q.Clauses)
		return tx
	}

	var count int64
	if err := base().Distinct("listings.id").Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	tx := base().Distinct("listings.*").
		Order(orderClause(q.Ordering)).
		Limit(limit).
		Offset(offset)
	for _, preload := range listingPreloads {
		tx = tx.Preload(preload)
	}

	var results []models.Listing
	if err := tx.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}

	return &ListingPage{
		Count:   count,
		Limit:   limit,
		Offset:  offset,
		Results: results,
	}, nil
}

// GetListingForCaller fetches one listing under the detail visibility scope.
// Returns gorm.ErrRecordNotFound both for missing rows and rows the caller
// may not see; handlers surface either as 404.
func (gdb *GormDB) GetListingForCaller(id uint, caller Caller) (*models.Listing, error) {
	tx := applyStatusScope(gdb.db.Model(&models.Listing{}), caller, ActionDetail)
	for _, preload := range listingPreloads {
		tx = tx.Preload(preload)
	}

	var listing models.Listing
	if err := tx.Where("listings.id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// applyStatusScope narrows the base result set by caller role before any
// explicit filter. List mode is the public catalog: Available only, admins
// included. Detail mode lets an owner review a pending submission and an
// admin see everything.
func applyStatusScope(tx *gorm.DB, c Caller, action ListingAction) *gorm.DB {
	if action == ActionList {
		return tx.Where("listings.status = ?", models.ListingStatusAvailable)
	}
	if c.IsStaff {
		return tx
	}
	if c.Authenticated {
		return tx.Where("listings.status = ? OR listings.agent_id = ?",
			models.ListingStatusAvailable, c.UserID)
	}
	return tx.Where("listings.status = ?", models.ListingStatusAvailable)
}

func applyFilters(tx *gorm.DB, f ListingFilters) *gorm.DB {
	if f.MinPrice != nil {
		tx = tx.Where("listings.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("listings.price <= ?", *f.MaxPrice)
	}
	if f.MinArea != nil {
		tx = tx.Where("listings.area_sqm >= ?", *f.MinArea)
	}
	if f.MaxArea != nil {
		tx = tx.Where("listings.area_sqm <= ?", *f.MaxArea)
	}
	if f.GovernorateID != nil {
		tx = tx.Where("listings.governorate_id = ?", *f.GovernorateID)
	}
	if f.CityID != nil {
		tx = tx.Where("listings.city_id = ?", *f.CityID)
	}
	if f.MajorZoneID != nil {
		tx = tx.Where("listings.major_zone_id = ?", *f.MajorZoneID)
	}
	if f.SubdivisionID != nil {
		tx = tx.Where("listings.subdivision_id = ?", *f.SubdivisionID)
	}
	if f.CategoryID != nil {
		tx = tx.Where("listings.category_id = ?", *f.CategoryID)
	}
	if f.OfferType != "" {
		tx = tx.Where("listings.offer_type = ?", f.OfferType)
	}
	if f.Status != "" {
		tx = tx.Where("listings.status = ?", f.Status)
	}
	if f.FinanceEligible != nil {
		tx = tx.Where("listings.is_finance_eligible = ?", *f.FinanceEligible)
	}
	return tx
}

func applySearch(tx *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return tx
	}
	pattern := containsPattern(search)
	like := "LIKE ?" + likeEscapeClause
	return tx.Where(
		fmt.Sprintf("LOWER(listings.title) %[1]s OR LOWER(listings.description) %[1]s OR LOWER(listings.reference_code) %[1]s OR LOWER(listings.project_name) %[1]s", like),
		pattern, pattern, pattern, pattern,
	)
}

// applyFeatureClauses joins the attribute-value table once per clause under a
// unique alias. Each join can multiply rows per listing, which is why the
// query is collapsed back to distinct listings by the caller.
func applyFeatureClauses(tx *gorm.DB, clauses []FeatureClause) *gorm.DB {
	for i, clause := range clauses {
		alias := fmt.Sprintf("lf%d", i)
		tx = tx.Joins(fmt.Sprintf(
			"JOIN listing_features %s ON %s.listing_id = listings.id", alias, alias))

		if len(clause.FeatureIDs) == 1 {
			tx = tx.Where(fmt.Sprintf("%s.feature_id = ?", alias), clause.FeatureIDs[0])
		} else {
			tx = tx.Where(fmt.Sprintf("%s.feature_id IN ?", alias), clause.FeatureIDs)
		}

		if clause.Exact {
			tx = tx.Where(fmt.Sprintf("%s.value_tokens LIKE ?%s", alias, likeEscapeClause),
				tokenPattern(clause.Value))
		} else {
			tx = tx.Where(fmt.Sprintf("LOWER(%s.value) LIKE ?%s", alias, likeEscapeClause),
				containsPattern(clause.Value))
		}
	}
	return tx
}

// orderClause builds the ORDER BY expression from whitelisted fields,
// always falling back to newest-first.
func orderClause(ordering []string) string {
	var parts []string
	for _, field := range ordering {
		field = strings.TrimSpace(field)
		direction := "ASC"
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			direction = "DESC"
		}
		column, ok := orderableFields[field]
		if !ok {
			continue
		}
		parts = append(parts, column+" "+direction)
	}
	parts = append(parts, "listings.created_at DESC")
	return strings.Join(parts, ", ")
}
