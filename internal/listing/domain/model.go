package domain

import "time"

type TransactionType string

const (
	TypeSale TransactionType = "sale"
	TypeRent TransactionType = "rent"
)

// Field constraints enforced before any network call is made.
const (
	MinNameLength = 10
	MaxNameLength = 32
	MinRooms      = 1
	MaxRooms      = 50
	MinPrice      = 50
	MaxPrice      = 750_000_000
	MinImages     = 1
	MaxImages     = 6
)

// Listing is the persisted marketplace entity. ID and CreatedAt are assigned
// by the store on create; OwnerRef is immutable after creation.
type Listing struct {
	ID              string
	Type            TransactionType
	Name            string
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Offer           bool
	RegularPrice    int64
	DiscountedPrice int64
	Location        string
	Latitude        float64
	Longitude       float64
	ImageURLs       []string // ordered, first entry is the cover image
	OwnerRef        string
	CreatedAt       time.Time
}

// SubmissionInput carries the caller-supplied mutable fields of a listing,
// validated as a unit before any side effect.
type SubmissionInput struct {
	Type            TransactionType
	Name            string
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Offer           bool
	RegularPrice    int64
	DiscountedPrice int64
	Address         string
}

// Validate checks every invariant of the input plus the submitted image count.
// It returns a *ValidationError naming the first violated constraint.
func (in SubmissionInput) Validate(imageCount int) error {
	if in.Type != TypeSale && in.Type != TypeRent {
		return &ValidationError{Field: "type", Reason: "must be 'sale' or 'rent'"}
	}
	if l := len(in.Name); l < MinNameLength || l > MaxNameLength {
		return &ValidationError{Field: "name", Reason: "must be between 10 and 32 characters"}
	}
	if in.Bedrooms < MinRooms || in.Bedrooms > MaxRooms {
		return &ValidationError{Field: "bedrooms", Reason: "must be between 1 and 50"}
	}
	if in.Bathrooms < MinRooms || in.Bathrooms > MaxRooms {
		return &ValidationError{Field: "bathrooms", Reason: "must be between 1 and 50"}
	}
	if in.RegularPrice < MinPrice || in.RegularPrice > MaxPrice {
		return &ValidationError{Field: "regularPrice", Reason: "must be between 50 and 750000000"}
	}
	if in.Offer && in.DiscountedPrice >= in.RegularPrice {
		return &ValidationError{Field: "discountedPrice", Reason: "must be less than regularPrice"}
	}
	if in.Address == "" {
		return &ValidationError{Field: "address", Reason: "must not be empty"}
	}
	if imageCount < MinImages || imageCount > MaxImages {
		return &ValidationError{Field: "images", Reason: "must contain between 1 and 6 images"}
	}
	return nil
}

// GeocodeResult is the outcome of resolving a free-text address. It is never
// persisted on its own; the coordinator folds it into the listing record.
type GeocodeResult struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// ImagePayload is one raw image of a submission batch.
type ImagePayload struct {
	FileName    string
	ContentType string
	Data        []byte
}
