package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/search"

	"github.com/gin-gonic/gin"
)

// SearchHandler serves full-text search over the public catalog
type SearchHandler struct {
	search *search.SearchClient
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchClient *search.SearchClient) *SearchHandler {
	return &SearchHandler{search: searchClient}
}

// Search runs a full-text query against the listing index
func (h *SearchHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not enabled"})
		return
	}

	params := search.FilterParams{
		Query:         c.Query("q"),
		MinPrice:      queryFloat(c, "min_price"),
		MaxPrice:      queryFloat(c, "max_price"),
		OfferType:     c.Query("offer_type"),
		GovernorateID: queryUint(c, "governorate"),
		CityID:        queryUint(c, "city"),
		CategoryID:    queryUint(c, "category"),
		SortBy:        c.Query("sort"),
		Limit:         int64(queryIntDefault(c, "limit", 20)),
		Offset:        int64(queryIntDefault(c, "offset", 0)),
	}

	result, err := h.search.FilterSearch(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":            result.Hits,
		"count":              result.TotalHits,
		"processing_time_ms": result.ProcessingTime,
	})
}
