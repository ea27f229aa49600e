package service

import (
	"context"
	"time"

	"fasohabita/server/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Store is the persistence the listing service needs. *database.Database
// implements it.
type Store interface {
	ListListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error)
	ListOwnerListings(ctx context.Context, ownerID string) ([]models.Listing, error)
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	CreateListing(ctx context.Context, listing *models.Listing, images []models.ImageInput) (*models.Listing, error)
	UpdateListing(ctx context.Context, id int64, ownerID string, req *models.UpdateListingRequest) (*models.Listing, error)
	DeleteListing(ctx context.Context, id int64, ownerID string) error
}

// EventSink receives events for committed mutations.
type EventSink interface {
	Push(event models.ListingEvent) error
}

// ListingService orchestrates listing reads and mutations and turns stored
// rows into response values.
type ListingService struct {
	store  Store
	events EventSink
	logger *logrus.Logger
	now    func() time.Time
}

func NewListingService(store Store, events EventSink, logger *logrus.Logger) *ListingService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ListingService{
		store:  store,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ListingService) List(ctx context.Context, f models.ListingFilter) ([]models.ListingResponse, error) {
	listings, err := s.store.ListListings(ctx, f)
	if err != nil {
		return nil, err
	}
	return models.NewListingResponses(listings), nil
}

func (s *ListingService) ListMine(ctx context.Context, ownerID string) ([]models.ListingResponse, error) {
	listings, err := s.store.ListOwnerListings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return models.NewListingResponses(listings), nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (*models.ListingResponse, error) {
	listing, err := s.store.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := models.NewListingResponse(listing)
	return &resp, nil
}

func (s *ListingService) Create(ctx context.Context, req *models.CreateListingRequest, ownerID string) (*models.ListingResponse, error) {
	listing := &models.Listing{
		Title:           req.Title,
		Description:     req.Description,
		TransactionType: req.TransactionType,
		Category:        req.Category,
		Currency:        req.Currency,
		City:            req.City,
		District:        req.District,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Area:            req.Area,
		Amenities:       datatypes.NewJSONSlice(append([]string{}, req.Amenities...)),
		Status:          models.NormalizeStatus(req.Status),
		OwnerID:         ownerID,
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if listing.Currency == "" {
		listing.Currency = models.DefaultCurrency
	}
	if listing.Status == "" {
		listing.Status = models.StatusAvailable
	}

	created, err := s.store.CreateListing(ctx, listing, req.Images)
	if err != nil {
		return nil, err
	}

	s.emit(models.EventListingCreated, created.ID, ownerID)
	resp := models.NewListingResponse(created)
	return &resp, nil
}

func (s *ListingService) Update(ctx context.Context, id int64, req *models.UpdateListingRequest, ownerID string) (*models.ListingResponse, error) {
	if req.Status != nil {
		status := models.NormalizeStatus(*req.Status)
		req.Status = &status
	}
	if req.Currency != nil && *req.Currency == "" {
		currency := models.DefaultCurrency
		req.Currency = &currency
	}

	updated, err := s.store.UpdateListing(ctx, id, ownerID, req)
	if err != nil {
		return nil, err
	}

	s.emit(models.EventListingUpdated, id, ownerID)
	resp := models.NewListingResponse(updated)
	return &resp, nil
}

func (s *ListingService) Delete(ctx context.Context, id int64, ownerID string) error {
	if err := s.store.DeleteListing(ctx, id, ownerID); err != nil {
		return err
	}
	s.emit(models.EventListingDeleted, id, ownerID)
	return nil
}

// emit never fails the mutation: a dropped event is only logged.
func (s *ListingService) emit(eventType string, listingID int64, ownerID string) {
	if s.events == nil {
		return
	}
	event := models.ListingEvent{
		Type:       eventType,
		ListingID:  listingID,
		OwnerID:    ownerID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.Push(event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event":      eventType,
			"listing_id": listingID,
		}).Warn("Dropped listing event")
	}
}
