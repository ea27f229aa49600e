package models

import (
	"time"

	"gorm.io/datatypes"
)

// Transaction types. The French forms are what the Burkinabe front-end sends
// and are stored verbatim.
const (
	TransactionRental   = "rental"
	TransactionSale     = "sale"
	TransactionLocation = "location"
	TransactionVente    = "vente"
)

// Known categories. The set is open: any non-empty category is accepted.
const (
	CategoryVilla           = "villa"
	CategoryApartment       = "apartment"
	CategoryStudio          = "studio"
	CategoryLand            = "land"
	CategoryCommercial      = "commercial"
	CategoryHouse           = "house"
	CategorySharedCourtyard = "shared-courtyard"
)

const (
	StatusAvailable = "available"
	StatusRented    = "rented"
	StatusSold      = "sold"
)

const DefaultCurrency = "FCFA"

// statusAliases maps the French status labels onto the canonical values.
var statusAliases = map[string]string{
	"disponible": StatusAvailable,
	"loué":       StatusRented,
	"vendu":      StatusSold,
}

// NormalizeStatus returns the canonical status for s. Unknown values are
// returned unchanged; validation happens at the HTTP boundary.
func NormalizeStatus(s string) string {
	if canonical, ok := statusAliases[s]; ok {
		return canonical
	}
	return s
}

// Listing is a property advertisement.
type Listing struct {
	ID              int64                       `gorm:"primaryKey;autoIncrement"`
	Title           string                      `gorm:"type:text;not null"`
	Description     string                      `gorm:"type:text;not null;default:''"`
	TransactionType string                      `gorm:"column:type;type:varchar(32);not null"`
	Category        string                      `gorm:"type:varchar(64);not null"`
	Price           int64                       `gorm:"not null"`
	Currency        string                      `gorm:"type:varchar(8);not null;default:'FCFA'"`
	City            string                      `gorm:"type:varchar(128);not null;index"`
	District        string                      `gorm:"type:varchar(128);not null"`
	Bedrooms        int                         `gorm:"not null;default:0"`
	Bathrooms       int                         `gorm:"not null;default:0"`
	Area            int                         `gorm:"not null;default:0"`
	Amenities       datatypes.JSONSlice[string] `gorm:"type:json"`
	Status          string                      `gorm:"type:varchar(16);not null;default:'available';index"`
	OwnerID         string                      `gorm:"type:varchar(64);not null;index"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time                   `gorm:"autoUpdateTime"`

	Images []ListingImage `gorm:"foreignKey:ListingID"`
	Owner  *User          `gorm:"foreignKey:OwnerID;references:ID"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingImage is one photograph attached to a listing.
type ListingImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ListingID int64     `gorm:"not null;index"`
	URL       string    `gorm:"type:text;not null"`
	IsMain    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}

// MainImage returns the image flagged as main, falling back to the first
// image in insertion order.
func (l *Listing) MainImage() *ListingImage {
	if len(l.Images) == 0 {
		return nil
	}
	for i := range l.Images {
		if l.Images[i].IsMain {
			return &l.Images[i]
		}
	}
	return &l.Images[0]
}
