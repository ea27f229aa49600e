package models

import "time"

// ImageInput is an image reference supplied on create or update. The URL is
// usually an object path returned by the upload endpoint.
type ImageInput struct {
	URL    string `json:"url" binding:"required,max=2048"`
	IsMain bool   `json:"isMain"`
}

// CreateListingRequest is the body of POST /api/listings.
type CreateListingRequest struct {
	Title           string       `json:"title" binding:"required,max=200"`
	Description     string       `json:"description" binding:"max=5000"`
	TransactionType string       `json:"type" binding:"required,oneof=rental sale location vente"`
	Category        string       `json:"category" binding:"required,max=64"`
	Price           *int64       `json:"price" binding:"required,min=0"`
	Currency        string       `json:"currency" binding:"omitempty,max=8"`
	City            string       `json:"city" binding:"required,max=128"`
	District        string       `json:"district" binding:"required,max=128"`
	Bedrooms        int          `json:"bedrooms" binding:"min=0"`
	Bathrooms       int          `json:"bathrooms" binding:"min=0"`
	Area            int          `json:"area" binding:"min=0"`
	Amenities       []string     `json:"amenities" binding:"omitempty,dive,max=100"`
	Status          string       `json:"status" binding:"omitempty,oneof=available rented sold disponible loué vendu"`
	Images          []ImageInput `json:"images" binding:"omitempty,dive"`
}

// UpdateListingRequest is the body of PUT /api/listings/:id. Nil fields are
// left untouched. A non-nil Images, even empty, replaces the whole image set.
type UpdateListingRequest struct {
	Title           *string       `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description     *string       `json:"description,omitempty" binding:"omitempty,max=5000"`
	TransactionType *string       `json:"type,omitempty" binding:"omitempty,oneof=rental sale location vente"`
	Category        *string       `json:"category,omitempty" binding:"omitempty,min=1,max=64"`
	Price           *int64        `json:"price,omitempty" binding:"omitempty,min=0"`
	Currency        *string       `json:"currency,omitempty" binding:"omitempty,max=8"`
	City            *string       `json:"city,omitempty" binding:"omitempty,min=1,max=128"`
	District        *string       `json:"district,omitempty" binding:"omitempty,min=1,max=128"`
	Bedrooms        *int          `json:"bedrooms,omitempty" binding:"omitempty,min=0"`
	Bathrooms       *int          `json:"bathrooms,omitempty" binding:"omitempty,min=0"`
	Area            *int          `json:"area,omitempty" binding:"omitempty,min=0"`
	Amenities       *[]string     `json:"amenities,omitempty" binding:"omitempty,dive,max=100"`
	Status          *string       `json:"status,omitempty" binding:"omitempty,oneof=available rented sold disponible loué vendu"`
	Images          *[]ImageInput `json:"images,omitempty" binding:"omitempty,dive"`
}

// UploadRequest asks for a presigned upload target.
type UploadRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Size        int64  `json:"size" binding:"required,gt=0"`
	ContentType string `json:"contentType" binding:"required,startswith=image/"`
}

// UploadResponse is returned by POST /api/uploads/request-url.
type UploadResponse struct {
	UploadURL  string        `json:"uploadURL"`
	ObjectPath string        `json:"objectPath"`
	Metadata   UploadRequest `json:"metadata"`
}

// ListingEvent is emitted after a committed listing mutation.
type ListingEvent struct {
	Type       string    `json:"type"`
	ListingID  int64     `json:"listingId"`
	OwnerID    string    `json:"ownerId"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	EventListingCreated = "listing.created"
	EventListingUpdated = "listing.updated"
	EventListingDeleted = "listing.deleted"
)
