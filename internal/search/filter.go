package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/meilisearch/meilisearch-go"
)

type FilterParams struct {
	Query         string
	MinPrice      *float64
	MaxPrice      *float64
	OfferType     string
	GovernorateID *uint
	CityID        *uint
	CategoryID    *uint
	SortBy        string
	Limit         int64
	Offset        int64
}

// FilterSearch performs full-text search restricted to Available listings
func (s *SearchClient) FilterSearch(params FilterParams) (*SearchResult, error) {
	// Only Available listings may ever leave the search endpoint
	filters := []string{"status = 'Available'"}

	// Price range filter
	if params.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %g", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %g", *params.MaxPrice))
	}

	if params.OfferType != "" {
		filters = append(filters, fmt.Sprintf("offer_type = '%s'", params.OfferType))
	}
	if params.GovernorateID != nil {
		filters = append(filters, fmt.Sprintf("governorate_id = %d", *params.GovernorateID))
	}
	if params.CityID != nil {
		filters = append(filters, fmt.Sprintf("city_id = %d", *params.CityID))
	}
	if params.CategoryID != nil {
		filters = append(filters, fmt.Sprintf("category_id = %d", *params.CategoryID))
	}

	// Default limit
	if params.Limit == 0 {
		params.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  params.Limit,
		Offset: params.Offset,
		Filter: strings.Join(filters, " AND "),
	}

	if params.SortBy != "" {
		searchReq.Sort = []string{params.SortBy}
	}

	searchRes, err := s.client.Index(s.index).Search(params.Query, searchReq)
	if err != nil {
		return nil, err
	}

	// Convert hits back to documents
	hits := make([]ListingDocument, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}

		var doc ListingDocument
		if err := json.Unmarshal(hitJSON, &doc); err != nil {
			continue
		}

		hits = append(hits, doc)
	}

	return &SearchResult{
		Hits:           hits,
		TotalHits:      searchRes.EstimatedTotalHits,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}, nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
