package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// listingDocument is the stored shape of a listing.
type listingDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Type            string             `bson:"type"`
	Name            string             `bson:"name"`
	Bedrooms        int                `bson:"bedrooms"`
	Bathrooms       int                `bson:"bathrooms"`
	Parking         bool               `bson:"parking"`
	Furnished       bool               `bson:"furnished"`
	Offer           bool               `bson:"offer"`
	RegularPrice    int64              `bson:"regular_price"`
	DiscountedPrice int64              `bson:"discounted_price,omitempty"`
	Location        string             `bson:"location"`
	Latitude        float64            `bson:"latitude"`
	Longitude       float64            `bson:"longitude"`
	ImageURLs       []string           `bson:"image_urls"`
	OwnerRef        string             `bson:"owner_ref"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", l.ID, err)
		}
	}
	return &listingDocument{
		ID:              docID,
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
	}, nil
}

// toDomainListing validates while it converts: a stored record that does not
// hydrate into a well-formed Listing is reported as malformed rather than
// silently patched or dropped.
func toDomainListing(d *listingDocument) (*domain.Listing, error) {
	t := domain.TransactionType(d.Type)
	if t != domain.TypeSale && t != domain.TypeRent {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrMalformedRecord, d.Type)
	}
	if len(d.ImageURLs) < domain.MinImages || len(d.ImageURLs) > domain.MaxImages {
		return nil, fmt.Errorf("%w: image url count %d", domain.ErrMalformedRecord, len(d.ImageURLs))
	}
	if d.OwnerRef == "" {
		return nil, fmt.Errorf("%w: missing owner reference", domain.ErrMalformedRecord)
	}
	return &domain.Listing{
		ID:              d.ID.Hex(),
		Type:            t,
		Name:            d.Name,
		Bedrooms:        d.Bedrooms,
		Bathrooms:       d.Bathrooms,
		Parking:         d.Parking,
		Furnished:       d.Furnished,
		Offer:           d.Offer,
		RegularPrice:    d.RegularPrice,
		DiscountedPrice: d.DiscountedPrice,
		Location:        d.Location,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		ImageURLs:       d.ImageURLs,
		OwnerRef:        d.OwnerRef,
		CreatedAt:       d.CreatedAt,
	}, nil
}
