package database

import (
	"net/url"
	"strconv"
	"strings"
)

// Caller identifies who is asking. Handlers build this from the auth context.
type Caller struct {
	UserID        uint
	IsStaff       bool
	Authenticated bool
}

// ListingAction selects the visibility scope applied before any filter.
type ListingAction string

const (
	// ActionList is the public catalog: only Available listings, for everyone.
	ActionList ListingAction = "list"
	// ActionDetail covers retrieve/update/delete: admins see all statuses,
	// owners additionally see their own listings in any status.
	ActionDetail ListingAction = "detail"
)

// ListingFilters are the standard exact-match and range filters. Nil/empty
// fields are not applied.
type ListingFilters struct {
	MinPrice *float64
	MaxPrice *float64
	MinArea  *int
	MaxArea  *int

	GovernorateID *uint
	CityID        *uint
	MajorZoneID   *uint
	SubdivisionID *uint
	CategoryID    *uint

	OfferType       string
	Status          string
	FinanceEligible *bool
}

// FeatureClause is one compiled dynamic attribute filter. All clauses are
// conjunctive with each other and with the status scope.
type FeatureClause struct {
	FeatureIDs []uint
	Value      string
	// Exact selects token-boundary matching instead of substring containment.
	// It is set when the filter carries a purely numeric value, so that "1"
	// cannot match a stored "10".
	Exact bool
}

const (
	singleFeaturePrefix = "feat_"
	multiFeaturePrefix  = "multi_feat_"
)

// ParseFeatureClauses compiles dynamic filter query parameters into clauses.
//
// Two parameter shapes are recognized:
//
//	feat_<id>=v            one feature
//	multi_feat_<a>-<b>=v   any of the features
//
// Numeric values match on exact token boundaries; anything else matches by
// case-insensitive substring containment.
//
// Empty values and the sentinel "0" mean "not supplied". Malformed parameters
// (non-numeric feature ids, and so on) are dropped silently; bad filter syntax
// must never fail the whole query.
func ParseFeatureClauses(params url.Values) []FeatureClause {
	var clauses []FeatureClause
	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		value := strings.TrimSpace(values[0])
		if value == "" || value == "0" {
			continue
		}

		switch {
		case strings.HasPrefix(key, multiFeaturePrefix):
			ids, ok := parseFeatureIDs(strings.TrimPrefix(key, multiFeaturePrefix))
			if !ok {
				continue
			}
			clauses = append(clauses, FeatureClause{
				FeatureIDs: ids,
				Value:      value,
				Exact:      isNumericValue(value),
			})
		case strings.HasPrefix(key, singleFeaturePrefix):
			id, err := strconv.ParseUint(strings.TrimPrefix(key, singleFeaturePrefix), 10, 32)
			if err != nil {
				continue
			}
			clauses = append(clauses, FeatureClause{
				FeatureIDs: []uint{uint(id)},
				Value:      value,
				Exact:      isNumericValue(value),
			})
		}
	}
	return clauses
}

// parseFeatureIDs parses a dash-joined id list like "5-6". A single bad id
// invalidates the whole clause.
func parseFeatureIDs(raw string) ([]uint, bool) {
	parts := strings.Split(raw, "-")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

// isNumericValue reports whether v is a plain number (digits with at most one
// decimal point), the shape that triggers exact-token matching.
func isNumericValue(v string) bool {
	if v == "" {
		return false
	}
	dots := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return v != "."
}

// TokenizeValue normalizes a stored attribute value into a comma-delimited
// token list used for exact numeric matching. "3, 5" becomes ",3,5," so that
// a query for "3" matches while "13" or "30" cannot. Computed at write time
// and persisted alongside the raw value.
func TokenizeValue(value string) string {
	fields := strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		switch {
		case r >= '0' && r <= '9':
			return false
		case r >= 'a' && r <= 'z':
			return false
		case r == '.':
			return false
		}
		return true
	})
	if len(fields) == 0 {
		return ","
	}
	return "," + strings.Join(fields, ",") + ","
}

// likeEscapeClause must accompany every LIKE built from the pattern helpers
// below. "!" is the escape character because backslash is itself an escape in
// MySQL string literals but not in sqlite's.
const likeEscapeClause = " ESCAPE '!'"

// escapeLike neutralizes the LIKE metacharacters in a caller-supplied value
// so "a_c" matches the literal string and not "abc".
func escapeLike(value string) string {
	value = strings.ReplaceAll(value, "!", "!!")
	value = strings.ReplaceAll(value, "%", "!%")
	value = strings.ReplaceAll(value, "_", "!_")
	return value
}

// tokenPattern is the LIKE pattern matching one exact token inside a
// tokenized value column.
func tokenPattern(value string) string {
	return "%," + escapeLike(strings.ToLower(strings.TrimSpace(value))) + ",%"
}

// containsPattern is the LIKE pattern for case-insensitive substring
// containment against a lowercased column.
func containsPattern(value string) string {
	return "%" + escapeLike(strings.ToLower(strings.TrimSpace(value))) + "%"
}
