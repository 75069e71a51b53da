package search

import (
	"real-estate-marketplace/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
	}
}

// ListingDocument is the flattened shape stored in the index. Only Available
// listings are indexed; anything else is removed on transition.
type ListingDocument struct {
	ID            uint     `json:"id"`
	ReferenceCode string   `json:"reference_code"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ProjectName   string   `json:"project_name"`
	OfferType     string   `json:"offer_type"`
	Status        string   `json:"status"`
	Price         float64  `json:"price"`
	AreaSqm       int      `json:"area_sqm"`
	GovernorateID uint     `json:"governorate_id"`
	CityID        uint     `json:"city_id"`
	CategoryID    uint     `json:"category_id"`
	ThumbnailURL  string   `json:"thumbnail_url,omitempty"`
	CreatedAt     int64    `json:"created_at"`
}

// DocumentFromListing flattens a listing for indexing.
func DocumentFromListing(listing *models.Listing) ListingDocument {
	doc := ListingDocument{
		ID:            listing.ID,
		ReferenceCode: listing.ReferenceCode,
		Title:         listing.Title,
		Description:   listing.Description,
		ProjectName:   listing.ProjectName,
		OfferType:     string(listing.OfferType),
		Status:        string(listing.Status),
		Price:         listing.Price,
		AreaSqm:       listing.AreaSqm,
		GovernorateID: listing.GovernorateID,
		CityID:        listing.CityID,
		CategoryID:    listing.CategoryID,
		CreatedAt:     listing.CreatedAt.Unix(),
	}
	if len(listing.Images) > 0 {
		doc.ThumbnailURL = listing.Images[0].ImageURL
	}
	return doc
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"reference_code",
		"project_name",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"offer_type",
		"status",
		"price",
		"area_sqm",
		"governorate_id",
		"city_id",
		"category_id",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"area_sqm",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexListing indexes a single listing
func (s *SearchClient) IndexListing(listing *models.Listing) error {
	_, err := s.client.Index(s.index).AddDocuments([]ListingDocument{DocumentFromListing(listing)})
	return err
}

// IndexListings indexes multiple listings
func (s *SearchClient) IndexListings(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	docs := make([]ListingDocument, 0, len(listings))
	for i := range listings {
		docs = append(docs, DocumentFromListing(&listings[i]))
	}
	_, err := s.client.Index(s.index).AddDocuments(docs)
	return err
}

// RemoveListing drops a listing from the index, for delete and for the
// Available -> Pending/Sold transitions.
func (s *SearchClient) RemoveListing(listingID uint) error {
	_, err := s.client.Index(s.index).DeleteDocument(formatID(listingID))
	return err
}

// ClearIndex removes all documents; used before a full reindex.
func (s *SearchClient) ClearIndex() error {
	_, err := s.client.Index(s.index).DeleteAllDocuments()
	return err
}

// SearchResult represents search results
type SearchResult struct {
	Hits           []ListingDocument
	TotalHits      int64
	ProcessingTime int64
}

// Search searches the index with basic options
func (s *SearchClient) Search(query string, limit int64) ([]ListingDocument, error) {
	result, err := s.FilterSearch(FilterParams{Query: query, Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}
