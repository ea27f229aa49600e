package models

import "time"

// ImageResponse is the wire shape of a listing image.
type ImageResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	IsMain    bool      `json:"isMain"`
	CreatedAt time.Time `json:"createdAt"`
}

// OwnerSummary is the public part of the owning user.
type OwnerSummary struct {
	ID              string  `json:"id"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// ListingResponse is a listing with its ordered images and owner summary.
type ListingResponse struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	TransactionType string          `json:"type"`
	Category        string          `json:"category"`
	Price           int64           `json:"price"`
	Currency        string          `json:"currency"`
	City            string          `json:"city"`
	District        string          `json:"district"`
	Bedrooms        int             `json:"bedrooms"`
	Bathrooms       int             `json:"bathrooms"`
	Area            int             `json:"area"`
	Amenities       []string        `json:"amenities"`
	Status          string          `json:"status"`
	OwnerID         string          `json:"ownerId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Images          []ImageResponse `json:"images"`
	MainImage       *ImageResponse  `json:"mainImage,omitempty"`
	Owner           *OwnerSummary   `json:"owner,omitempty"`
}

// NewListingResponse assembles the response value for a loaded listing.
// Images must already be in insertion order.
func NewListingResponse(l *Listing) ListingResponse {
	resp := ListingResponse{
		ID:              l.ID,
		Title:           l.Title,
		Description:     l.Description,
		TransactionType: l.TransactionType,
		Category:        l.Category,
		Price:           l.Price,
		Currency:        l.Currency,
		City:            l.City,
		District:        l.District,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		Area:            l.Area,
		Amenities:       append([]string{}, l.Amenities...),
		Status:          l.Status,
		OwnerID:         l.OwnerID,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Images:          make([]ImageResponse, 0, len(l.Images)),
	}

	for _, img := range l.Images {
		resp.Images = append(resp.Images, ImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			IsMain:    img.IsMain,
			CreatedAt: img.CreatedAt,
		})
	}

	if main := l.MainImage(); main != nil {
		resp.MainImage = &ImageResponse{
			ID:        main.ID,
			URL:       main.URL,
			IsMain:    main.IsMain,
			CreatedAt: main.CreatedAt,
		}
	}

	if l.Owner != nil {
		resp.Owner = &OwnerSummary{
			ID:              l.Owner.ID,
			FirstName:       l.Owner.FirstName,
			LastName:        l.Owner.LastName,
			ProfileImageURL: l.Owner.ProfileImageURL,
		}
	}

	return resp
}

// NewListingResponses converts a slice, never returning nil.
func NewListingResponses(listings []Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, NewListingResponse(&listings[i]))
	}
	return out
}
