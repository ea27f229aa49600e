package database

import (
	"fmt"

	"fasohabita/server/internal/models"

	"gorm.io/gorm"
)

// MigrateSchema creates or updates the users, listings and listing_images tables.
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Listing{}, &models.ListingImage{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Public search filters on status and sorts on creation time
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_status_created
		ON listings(status, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("failed to create listings index: %w", err)
	}

	return nil
}

func (d *Database) RunMigrations() error {
	return MigrateSchema(d.db)
}
