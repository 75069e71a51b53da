package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingHandler handles the listing catalog and submissions
type ListingHandler struct {
	gdb    *database.GormDB
	search *search.SearchClient // nil when search is disabled
}

// NewListingHandler creates a new listing handler
func NewListingHandler(gdb *database.GormDB, searchClient *search.SearchClient) *ListingHandler {
	return &ListingHandler{
		gdb:    gdb,
		search: searchClient,
	}
}

// List returns one page of the catalog under the caller's list scope
func (h *ListingHandler) List(c *gin.Context) {
	query := database.ListingQuery{
		Caller: callerFrom(c),
		Action: database.ActionList,
		Filters: database.ListingFilters{
			MinPrice:        queryFloat(c, "min_price"),
			MaxPrice:        queryFloat(c, "max_price"),
			MinArea:         queryInt(c, "min_area"),
			MaxArea:         queryInt(c, "max_area"),
			GovernorateID:   queryUint(c, "governorate"),
			CityID:          queryUint(c, "city"),
			MajorZoneID:     queryUint(c, "major_zone"),
			SubdivisionID:   queryUint(c, "subdivision"),
			CategoryID:      queryUint(c, "category"),
			OfferType:       c.Query("offer_type"),
			Status:          c.Query("status"),
			FinanceEligible: queryBool(c, "is_finance_eligible"),
		},
		Clauses: database.ParseFeatureClauses(c.Request.URL.Query()),
		Search:  c.Query("search"),
		Limit:   queryIntDefault(c, "limit", 0),
		Offset:  queryIntDefault(c, "offset", 0),
	}
	if ordering := c.Query("ordering"); ordering != "" {
		query.Ordering = strings.Split(ordering, ",")
	}

	page, err := h.gdb.QueryListings(query)
	if err != nil {
		log.Printf("Failed to query listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query listings"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get returns one listing under the caller's detail scope
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	listing, err := h.gdb.GetListingForCaller(id, callerFrom(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// listingRequest is the submission payload shared by create and update.
// Attributes maps feature IDs (as strings) to raw values.
type listingRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	AreaSqm     int     `json:"area_sqm" binding:"omitempty,gte=0"`

	Bedrooms        *int   `json:"bedrooms"`
	Bathrooms       *int   `json:"bathrooms"`
	FloorNumber     *int   `json:"floor_number"`
	BuildingNumber  string `json:"building_number"`
	ApartmentNumber string `json:"apartment_number"`
	ProjectName     string `json:"project_name"`

	GovernorateID uint  `json:"governorate_id" binding:"required"`
	CityID        uint  `json:"city_id" binding:"required"`
	MajorZoneID   uint  `json:"major_zone_id" binding:"required"`
	SubdivisionID *uint `json:"subdivision_id"`
	CategoryID    uint  `json:"category_id" binding:"required"`

	OfferType         string `json:"offer_type"`
	IsFinanceEligible bool   `json:"is_finance_eligible"`

	GoogleMapsURL string   `json:"google_maps_url"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	VideoURL      string   `json:"video_url"`
	YoutubeURL    string   `json:"youtube_url"`

	OwnerName  string `json:"owner_name"`
	OwnerPhone string `json:"owner_phone"`

	Attributes map[string]string `json:"attributes"`
	Images     []string          `json:"images"`
	Documents  []struct {
		DocumentURL  string `json:"document_url"`
		DocumentType string `json:"document_type"`
	} `json:"documents"`
}

func (r *listingRequest) apply(listing *models.Listing) {
	listing.Title = r.Title
	listing.Description = r.Description
	listing.Price = r.Price
	listing.AreaSqm = r.AreaSqm
	listing.Bedrooms = r.Bedrooms
	listing.Bathrooms = r.Bathrooms
	listing.FloorNumber = r.FloorNumber
	listing.BuildingNumber = r.BuildingNumber
	listing.ApartmentNumber = r.ApartmentNumber
	listing.ProjectName = r.ProjectName
	listing.GovernorateID = r.GovernorateID
	listing.CityID = r.CityID
	listing.MajorZoneID = r.MajorZoneID
	listing.SubdivisionID = r.SubdivisionID
	listing.CategoryID = r.CategoryID
	listing.IsFinanceEligible = r.IsFinanceEligible
	listing.GoogleMapsURL = r.GoogleMapsURL
	listing.Latitude = r.Latitude
	listing.Longitude = r.Longitude
	listing.VideoURL = r.VideoURL
	listing.YoutubeURL = r.YoutubeURL
	if r.OfferType != "" {
		listing.OfferType = models.OfferType(r.OfferType)
	}
}

func (r *listingRequest) documentModels() []models.ListingDocument {
	docs := make([]models.ListingDocument, 0, len(r.Documents))
	for _, d := range r.Documents {
		docs = append(docs, models.ListingDocument{
			DocumentURL:  d.DocumentURL,
			DocumentType: d.DocumentType,
		})
	}
	return docs
}

// Create submits a listing. Admin submissions go live immediately; everyone
// else lands in Pending for vetting.
func (h *ListingHandler) Create(c *gin.Context) {
	identity := auth.FromContext(c)

	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var agent models.User
	if err := h.gdb.DB().First(&agent, identity.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	listing := models.Listing{
		OfferType: models.OfferTypeSale,
		Status:    models.ListingStatusPending,
	}
	req.apply(&listing)
	listing.AgentID = &agent.ID

	if identity.IsStaff {
		listing.Status = models.ListingStatusAvailable
	}

	// Owner contact defaults from the submitter's profile
	listing.OwnerName = req.OwnerName
	listing.OwnerPhone = req.OwnerPhone
	if listing.OwnerName == "" {
		listing.OwnerName = agent.DisplayName()
	}
	if listing.OwnerPhone == "" {
		listing.OwnerPhone = agent.PhoneNumber
	}

	if err := h.gdb.CreateListing(&listing, req.Attributes, req.Images, req.documentModels()); err != nil {
		log.Printf("Failed to create listing: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	h.syncSearch(&listing)

	c.JSON(http.StatusCreated, listing)
}

// Update edits a listing. Only the owner or an admin may touch it, and a
// non-admin edit puts the listing back into vetting.
func (h *ListingHandler) Update(c *gin.Context) {
	identity := auth.FromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var listing models.Listing
	if err := h.gdb.DB().First(&listing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if !identity.IsStaff && (listing.AgentID == nil || *listing.AgentID != identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to edit this listing"})
		return
	}

	var req struct {
		listingRequest
		Status          string `json:"status"`
		DeletedImageIDs []uint `json:"deleted_image_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.apply(&listing)
	// An omitted contact field keeps the stored value; edits never blank it
	if req.OwnerName != "" {
		listing.OwnerName = req.OwnerName
	}
	if req.OwnerPhone != "" {
		listing.OwnerPhone = req.OwnerPhone
	}

	if identity.IsStaff {
		if req.Status != "" {
			listing.Status = models.ListingStatus(req.Status)
		}
	} else {
		// Edits go back through vetting
		listing.Status = models.ListingStatusPending
	}

	if err := h.gdb.UpdateListing(&listing, req.Attributes, req.Images, req.DeletedImageIDs); err != nil {
		log.Printf("Failed to update listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	h.syncSearch(&listing)

	c.JSON(http.StatusOK, listing)
}

// Delete removes a listing. Only the owner or an admin may delete it.
func (h *ListingHandler) Delete(c *gin.Context) {
	identity := auth.FromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var listing models.Listing
	if err := h.gdb.DB().First(&listing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if !identity.IsStaff && (listing.AgentID == nil || *listing.AgentID != identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to delete this listing"})
		return
	}

	if err := h.gdb.DeleteListing(id); err != nil {
		log.Printf("Failed to delete listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
		return
	}

	if h.search != nil {
		if err := h.search.RemoveListing(id); err != nil {
			log.Printf("Failed to remove listing %d from search index: %v", id, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// My returns the caller's own listings in every status
func (h *ListingHandler) My(c *gin.Context) {
	identity := auth.FromContext(c)

	var listings []models.Listing
	err := h.gdb.DB().
		Where("agent_id = ?", identity.UserID).
		Order("created_at DESC").
		Preload("Governorate").Preload("City").Preload("Category").
		Preload("Images").
		Find(&listings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": listings,
		"count":   len(listings),
	})
}

// syncSearch keeps the index in step with the listing's status. Only Available
// listings are searchable.
func (h *ListingHandler) syncSearch(listing *models.Listing) {
	if h.search == nil {
		return
	}
	var err error
	if listing.Status == models.ListingStatusAvailable {
		err = h.search.IndexListing(listing)
	} else {
		err = h.search.RemoveListing(listing.ID)
	}
	if err != nil {
		log.Printf("Failed to sync listing %d to search index: %v", listing.ID, err)
	}
}
