package database

import (
	"net/url"
	"strconv"
	"testing"

	"real-estate-marketplace/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func newTestDB(t *testing.T) *GormDB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	gdb := NewGormDBFromDB(db)
	require.NoError(t, gdb.InitSchema())
	return gdb
}

// seedWorld creates the minimal geography chain, a category with two numeric
// features (IDs are returned), and two users (agent, staff).
type world struct {
	gov      models.Governorate
	city     models.City
	zone     models.MajorZone
	category models.Category
	featA    models.Feature
	featB    models.Feature
	agent    models.User
	staff    models.User
}

func seedWorld(t *testing.T, gdb *GormDB) *world {
	t.Helper()
	db := gdb.DB()

	w := &world{
		gov:      models.Governorate{Name: "Capital"},
		category: models.Category{Name: "Apartments", Slug: "apartments"},
		agent:    models.User{Username: "agent1", PhoneNumber: "+20100000001"},
		staff:    models.User{Username: "admin1", PhoneNumber: "+20100000002", IsStaff: true},
	}
	require.NoError(t, db.Create(&w.gov).Error)
	w.city = models.City{Name: "Downtown", GovernorateID: w.gov.ID}
	require.NoError(t, db.Create(&w.city).Error)
	w.zone = models.MajorZone{Name: "First District", CityID: w.city.ID}
	require.NoError(t, db.Create(&w.zone).Error)
	require.NoError(t, db.Create(&w.category).Error)

	w.featA = models.Feature{CategoryID: w.category.ID, Name: "Bedrooms", InputType: models.FeatureInputNumber}
	w.featB = models.Feature{CategoryID: w.category.ID, Name: "Floors", InputType: models.FeatureInputNumber}
	require.NoError(t, db.Create(&w.featA).Error)
	require.NoError(t, db.Create(&w.featB).Error)

	require.NoError(t, db.Create(&w.agent).Error)
	require.NoError(t, db.Create(&w.staff).Error)
	return w
}

func (w *world) newListing(title string, status models.ListingStatus, agentID uint) *models.Listing {
	return &models.Listing{
		Title:         title,
		Price:         1_000_000,
		AreaSqm:       120,
		GovernorateID: w.gov.ID,
		CityID:        w.city.ID,
		MajorZoneID:   w.zone.ID,
		CategoryID:    w.category.ID,
		AgentID:       &agentID,
		OfferType:     models.OfferTypeSale,
		Status:        status,
	}
}

func mustCreate(t *testing.T, gdb *GormDB, listing *models.Listing, attributes map[string]string) *models.Listing {
	t.Helper()
	require.NoError(t, gdb.CreateListing(listing, attributes, nil, nil))
	return listing
}

func listIDs(page *ListingPage) []uint {
	ids := make([]uint, 0, len(page.Results))
	for _, l := range page.Results {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestListScopeIsAvailableOnlyForEveryone(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	available := mustCreate(t, gdb, w.newListing("Live", models.ListingStatusAvailable, w.agent.ID), nil)
	mustCreate(t, gdb, w.newListing("Vetting", models.ListingStatusPending, w.agent.ID), nil)
	mustCreate(t, gdb, w.newListing("Gone", models.ListingStatusSold, w.agent.ID), nil)

	callers := map[string]Caller{
		"anonymous": {},
		"owner":     {UserID: w.agent.ID, Authenticated: true},
		"admin":     {UserID: w.staff.ID, IsStaff: true, Authenticated: true},
	}

	for name, caller := range callers {
		page, err := gdb.QueryListings(ListingQuery{Caller: caller, Action: ActionList})
		require.NoError(t, err, name)
		assert.Equal(t, int64(1), page.Count, "%s must see only the public catalog", name)
		assert.Equal(t, []uint{available.ID}, listIDs(page), name)
	}
}

func TestDetailScopeRoleMatrix(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	other := models.User{Username: "agent2"}
	require.NoError(t, gdb.DB().Create(&other).Error)

	pending := mustCreate(t, gdb, w.newListing("Vetting", models.ListingStatusPending, w.agent.ID), nil)

	cases := []struct {
		name    string
		caller  Caller
		visible bool
	}{
		{"anonymous", Caller{}, false},
		{"non-owner", Caller{UserID: other.ID, Authenticated: true}, false},
		{"owner", Caller{UserID: w.agent.ID, Authenticated: true}, true},
		{"admin", Caller{UserID: w.staff.ID, IsStaff: true, Authenticated: true}, true},
	}

	for _, tc := range cases {
		got, err := gdb.GetListingForCaller(pending.ID, tc.caller)
		if tc.visible {
			require.NoError(t, err, tc.name)
			assert.Equal(t, pending.ID, got.ID, tc.name)
		} else {
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound, tc.name)
		}
	}
}

func TestNumericExactTokenMatching(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	featID := itoa(w.featA.ID)
	exact3 := mustCreate(t, gdb, w.newListing("Three", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "3"})
	multi35 := mustCreate(t, gdb, w.newListing("ThreeFive", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "3,5"})
	mustCreate(t, gdb, w.newListing("Thirteen", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "13"})
	mustCreate(t, gdb, w.newListing("Thirty", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "30"})

	// The clause comes from the URL parameter, exactly as handlers build it
	clauses := ParseFeatureClauses(url.Values{"feat_" + featID: {"3"}})

	page, err := gdb.QueryListings(ListingQuery{
		Action:  ActionList,
		Clauses: clauses,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	assert.ElementsMatch(t, []uint{exact3.ID, multi35.ID}, listIDs(page))
}

func TestWildcardCharactersMatchLiterally(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	featID := itoa(w.featA.ID)
	underscore := mustCreate(t, gdb, w.newListing("Underscore", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "a_c"})
	mustCreate(t, gdb, w.newListing("Gym", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "Gym, Pool"})

	// "g_m" is a literal value, not "g<any>m"; it must not hit "Gym, Pool"
	page, err := gdb.QueryListings(ListingQuery{
		Action:  ActionList,
		Clauses: ParseFeatureClauses(url.Values{"feat_" + featID: {"g_m"}}),
	})
	require.NoError(t, err)
	assert.Empty(t, listIDs(page))

	// While the stored literal underscore is still reachable
	page, err = gdb.QueryListings(ListingQuery{
		Action:  ActionList,
		Clauses: ParseFeatureClauses(url.Values{"feat_" + featID: {"a_c"}}),
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{underscore.ID}, listIDs(page))
}

func TestSubstringMatchingForSingleFeature(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	featID := itoa(w.featA.ID)
	gym := mustCreate(t, gdb, w.newListing("WithGym", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "Gym, Pool"})
	mustCreate(t, gdb, w.newListing("Plain", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{featID: "Garden"})

	page, err := gdb.QueryListings(ListingQuery{
		Action: ActionList,
		Clauses: []FeatureClause{
			{FeatureIDs: []uint{w.featA.ID}, Value: "gym"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{gym.ID}, listIDs(page))
}

func TestMultiFeatureClauseMatchesAnyOfTheSetExactlyOnce(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	aID, bID := itoa(w.featA.ID), itoa(w.featB.ID)

	// Matches via featA only
	viaA := mustCreate(t, gdb, w.newListing("ViaA", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{aID: "2", bID: "9"})
	// Matches via both features; must still appear once
	viaBoth := mustCreate(t, gdb, w.newListing("ViaBoth", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{aID: "2", bID: "2"})
	// Matches neither
	mustCreate(t, gdb, w.newListing("Neither", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{aID: "7", bID: "9"})

	page, err := gdb.QueryListings(ListingQuery{
		Action: ActionList,
		Clauses: []FeatureClause{
			{FeatureIDs: []uint{w.featA.ID, w.featB.ID}, Value: "2", Exact: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count, "count must deduplicate joined rows")
	assert.ElementsMatch(t, []uint{viaA.ID, viaBoth.ID}, listIDs(page))
}

func TestClausesAreConjunctive(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	aID, bID := itoa(w.featA.ID), itoa(w.featB.ID)
	both := mustCreate(t, gdb, w.newListing("Both", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{aID: "3", bID: "2"})
	mustCreate(t, gdb, w.newListing("OnlyA", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{aID: "3", bID: "9"})

	page, err := gdb.QueryListings(ListingQuery{
		Action: ActionList,
		Clauses: []FeatureClause{
			{FeatureIDs: []uint{w.featA.ID}, Value: "3", Exact: true},
			{FeatureIDs: []uint{w.featB.ID}, Value: "2", Exact: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{both.ID}, listIDs(page))
}

func TestOrderingWhitelistAndDefault(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	cheap := w.newListing("Cheap", models.ListingStatusAvailable, w.agent.ID)
	cheap.Price = 100
	mustCreate(t, gdb, cheap, nil)
	expensive := w.newListing("Expensive", models.ListingStatusAvailable, w.agent.ID)
	expensive.Price = 900
	mustCreate(t, gdb, expensive, nil)

	page, err := gdb.QueryListings(ListingQuery{
		Action:   ActionList,
		Ordering: []string{"price", "garbage_field"},
	})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, cheap.ID, page.Results[0].ID)

	page, err = gdb.QueryListings(ListingQuery{
		Action:   ActionList,
		Ordering: []string{"-price"},
	})
	require.NoError(t, err)
	assert.Equal(t, expensive.ID, page.Results[0].ID)
}

func TestSearchOverTextFields(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	sea := w.newListing("Sea View Flat", models.ListingStatusAvailable, w.agent.ID)
	mustCreate(t, gdb, sea, nil)
	mustCreate(t, gdb, w.newListing("City Apartment", models.ListingStatusAvailable, w.agent.ID), nil)

	page, err := gdb.QueryListings(ListingQuery{Action: ActionList, Search: "sea view"})
	require.NoError(t, err)
	assert.Equal(t, []uint{sea.ID}, listIDs(page))

	// Reference code search
	page, err = gdb.QueryListings(ListingQuery{Action: ActionList, Search: sea.ReferenceCode})
	require.NoError(t, err)
	assert.Equal(t, []uint{sea.ID}, listIDs(page))

	// A wildcard in the term is a literal character, so "s_a" is not "sea"
	page, err = gdb.QueryListings(ListingQuery{Action: ActionList, Search: "s_a"})
	require.NoError(t, err)
	assert.Empty(t, listIDs(page))
}

func TestPagination(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	for i := 0; i < 5; i++ {
		mustCreate(t, gdb, w.newListing("L", models.ListingStatusAvailable, w.agent.ID), nil)
	}

	page, err := gdb.QueryListings(ListingQuery{Action: ActionList, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Count)
	assert.Len(t, page.Results, 2)

	page, err = gdb.QueryListings(ListingQuery{Action: ActionList, Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
}

func TestUpsertAttributesSkipsUnknownFeatures(t *testing.T) {
	gdb := newTestDB(t)
	w := seedWorld(t, gdb)

	listing := mustCreate(t, gdb, w.newListing("L", models.ListingStatusAvailable, w.agent.ID),
		map[string]string{
			itoa(w.featA.ID): "3",
			"9999":           "ghost", // unknown feature id
			"abc":            "bad key",
			itoa(w.featB.ID): "", // empty values are dropped
		})

	var stored []models.ListingFeature
	require.NoError(t, gdb.DB().Where("listing_id = ?", listing.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, w.featA.ID, stored[0].FeatureID)
	assert.Equal(t, ",3,", stored[0].ValueTokens)
}
