package rest

import (
	"time"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

type listingResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	Bedrooms        int       `json:"bedrooms"`
	Bathrooms       int       `json:"bathrooms"`
	Parking         bool      `json:"parking"`
	Furnished       bool      `json:"furnished"`
	Offer           bool      `json:"offer"`
	RegularPrice    int64     `json:"regularPrice"`
	DiscountedPrice int64     `json:"discountedPrice,omitempty"`
	Location        string    `json:"location"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	ImageURLs       []string  `json:"imgUrls"`
	OwnerRef        string    `json:"userRef"`
	CreatedAt       time.Time `json:"createdAt"`
}

type searchResponse struct {
	Listings   []listingResponse `json:"listings"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

type contactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:              l.ID,
		Type:            string(l.Type),
		Name:            l.Name,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		Parking:         l.Parking,
		Furnished:       l.Furnished,
		Offer:           l.Offer,
		RegularPrice:    l.RegularPrice,
		DiscountedPrice: l.DiscountedPrice,
		Location:        l.Location,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		ImageURLs:       l.ImageURLs,
		OwnerRef:        l.OwnerRef,
		CreatedAt:       l.CreatedAt,
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}
