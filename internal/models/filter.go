package models

import (
	"net/url"
	"strconv"
	"strings"
)

// ListingFilter holds the optional criteria of the public listing search.
// Zero values mean "not supplied", so a filter for exactly zero bedrooms or a
// free listing cannot be expressed.
type ListingFilter struct {
	Search          string
	TransactionType string
	Category        string
	City            string
	District        string
	MinPrice        int64
	MaxPrice        int64
	MinBedrooms     int
}

// ParseListingFilter reads the filter from query parameters. Unparsable or
// negative numbers are ignored.
func ParseListingFilter(q url.Values) ListingFilter {
	f := ListingFilter{
		Search:          strings.TrimSpace(q.Get("search")),
		TransactionType: strings.TrimSpace(q.Get("type")),
		Category:        strings.TrimSpace(q.Get("category")),
		City:            strings.TrimSpace(q.Get("city")),
		District:        strings.TrimSpace(q.Get("district")),
	}
	if v, err := strconv.ParseInt(q.Get("minPrice"), 10, 64); err == nil && v > 0 {
		f.MinPrice = v
	}
	if v, err := strconv.ParseInt(q.Get("maxPrice"), 10, 64); err == nil && v > 0 {
		f.MaxPrice = v
	}
	if v, err := strconv.Atoi(q.Get("bedrooms")); err == nil && v > 0 {
		f.MinBedrooms = v
	}
	return f
}

// Values is the inverse of ParseListingFilter. Absent fields are omitted.
func (f ListingFilter) Values() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.TransactionType != "" {
		q.Set("type", f.TransactionType)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.District != "" {
		q.Set("district", f.District)
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.MinBedrooms > 0 {
		q.Set("bedrooms", strconv.Itoa(f.MinBedrooms))
	}
	return q
}
