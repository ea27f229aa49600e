package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fasohabita/server/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// withRelations preloads images in insertion order and the owner row.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Listing{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.id ASC")
		}).
		Preload("Owner")
}

// applyFilter adds one predicate per supplied criterion. Empty strings and
// zero numbers impose nothing.
func applyFilter(q *gorm.DB, f models.ListingFilter) *gorm.DB {
	if f.Search != "" {
		// Both sides fold in SQL so the term and the column go through the same LOWER
		q = q.Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(f.Search)+"%")
	}
	if f.TransactionType != "" {
		q = q.Where("type = ?", f.TransactionType)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}
	if f.District != "" {
		q = q.Where("LOWER(district) = LOWER(?)", f.District)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.MinBedrooms > 0 {
		q = q.Where("bedrooms >= ?", f.MinBedrooms)
	}
	return q
}

func newestFirst(q *gorm.DB) *gorm.DB {
	return q.Order("created_at DESC").Order("id DESC")
}

// ListListings returns the publicly visible listings matching f, newest first.
// Only available listings are ever returned.
func (d *Database) ListListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error) {
	q := applyFilter(withRelations(d.db.WithContext(ctx)), f).
		Where("status = ?", models.StatusAvailable)

	var listings []models.Listing
	if err := newestFirst(q).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

// ListOwnerListings returns every listing of ownerID whatever its status.
func (d *Database) ListOwnerListings(ctx context.Context, ownerID string) ([]models.Listing, error) {
	q := withRelations(d.db.WithContext(ctx)).Where("owner_id = ?", ownerID)

	var listings []models.Listing
	if err := newestFirst(q).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings of owner %s: %w", ownerID, err)
	}
	return listings, nil
}

// GetListing loads one listing regardless of status.
func (d *Database) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	return loadListing(d.db.WithContext(ctx), id)
}

func loadListing(db *gorm.DB, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := withRelations(db).Where("listings.id = ?", id).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %d: %w", id, err)
	}
	return &listing, nil
}

// Authorize returns the listing when callerID owns it.
func (d *Database) Authorize(ctx context.Context, id int64, callerID string) (*models.Listing, error) {
	return authorize(d.db.WithContext(ctx), id, callerID)
}

func authorize(db *gorm.DB, id int64, callerID string) (*models.Listing, error) {
	var listing models.Listing
	err := db.Where("id = ?", id).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %d: %w", id, err)
	}
	if listing.OwnerID != callerID {
		return nil, models.ErrNotOwner
	}
	return &listing, nil
}

// CreateListing inserts the listing and its images in one transaction and
// returns the stored listing with relations.
func (d *Database) CreateListing(ctx context.Context, listing *models.Listing, images []models.ImageInput) (*models.Listing, error) {
	var created *models.Listing
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(listing).Error; err != nil {
			return fmt.Errorf("failed to insert listing: %w", err)
		}
		if err := insertImages(tx, listing.ID, images); err != nil {
			return err
		}

		var err error
		created, err = loadListing(tx, listing.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateListing applies the non-nil fields of req to a listing owned by
// ownerID. A non-nil req.Images replaces the full image set.
func (d *Database) UpdateListing(ctx context.Context, id int64, ownerID string, req *models.UpdateListingRequest) (*models.Listing, error) {
	var updated *models.Listing
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := authorize(tx, id, ownerID); err != nil {
			return err
		}

		changes := listingChanges(req)
		changes["updated_at"] = time.Now().UTC()
		if err := tx.Model(&models.Listing{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update listing %d: %w", id, err)
		}

		if req.Images != nil {
			if err := tx.Where("listing_id = ?", id).Delete(&models.ListingImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete images of listing %d: %w", id, err)
			}
			if err := insertImages(tx, id, *req.Images); err != nil {
				return err
			}
		}

		var err error
		updated, err = loadListing(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteListing removes the images and then the listing row.
func (d *Database) DeleteListing(ctx context.Context, id int64, ownerID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := authorize(tx, id, ownerID); err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.ListingImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of listing %d: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Listing{}).Error; err != nil {
			return fmt.Errorf("failed to delete listing %d: %w", id, err)
		}
		return nil
	})
}

// ClearListings removes every listing and image. Used by the seed command.
func (d *Database) ClearListings(ctx context.Context) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ListingImage{}).Error; err != nil {
			return fmt.Errorf("failed to clear listing images: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Listing{}).Error; err != nil {
			return fmt.Errorf("failed to clear listings: %w", err)
		}
		return nil
	})
}

func insertImages(tx *gorm.DB, listingID int64, images []models.ImageInput) error {
	if len(images) == 0 {
		return nil
	}
	rows := make([]models.ListingImage, 0, len(images))
	for _, img := range images {
		rows = append(rows, models.ListingImage{
			ListingID: listingID,
			URL:       img.URL,
			IsMain:    img.IsMain,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert images of listing %d: %w", listingID, err)
	}
	return nil
}

// listingChanges maps the supplied fields onto column names.
func listingChanges(req *models.UpdateListingRequest) map[string]interface{} {
	changes := map[string]interface{}{}
	if req.Title != nil {
		changes["title"] = *req.Title
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.TransactionType != nil {
		changes["type"] = *req.TransactionType
	}
	if req.Category != nil {
		changes["category"] = *req.Category
	}
	if req.Price != nil {
		changes["price"] = *req.Price
	}
	if req.Currency != nil {
		changes["currency"] = *req.Currency
	}
	if req.City != nil {
		changes["city"] = *req.City
	}
	if req.District != nil {
		changes["district"] = *req.District
	}
	if req.Bedrooms != nil {
		changes["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		changes["bathrooms"] = *req.Bathrooms
	}
	if req.Area != nil {
		changes["area"] = *req.Area
	}
	if req.Amenities != nil {
		changes["amenities"] = datatypes.NewJSONSlice(*req.Amenities)
	}
	if req.Status != nil {
		changes["status"] = *req.Status
	}
	return changes
}
