package domain

import "context"

type ListingRepository interface {
	// Create stores a new listing and returns the store-assigned identifier.
	Create(ctx context.Context, listing *Listing) (string, error)
	// Replace overwrites all mutable fields of an existing listing.
	Replace(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindPage returns up to Limit records in creation-time-descending order,
	// resuming strictly after the anchor when one is set.
	FindPage(ctx context.Context, q PageQuery) ([]*Listing, error)
}

// ProgressFunc reports incremental upload progress for a single object.
type ProgressFunc func(transferred, total int64)

// ObjectStorage is the remote object store the media batch uploads into.
// Uploads are idempotent per key.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string, progress ProgressFunc) (string, error)
}

type Geocoder interface {
	Resolve(ctx context.Context, address string) (*GeocodeResult, error)
}

// ListingCache is the locally held, derived view of listings, keyed by id.
// Get returns (nil, nil) on a miss.
type ListingCache interface {
	Get(ctx context.Context, id string) (*Listing, error)
	Set(ctx context.Context, listing *Listing) error
	Invalidate(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

type OwnerContact struct {
	Name  string
	Email string
}

// OwnerDirectory resolves the contact details of the identity that owns a
// listing.
type OwnerDirectory interface {
	ContactByID(ctx context.Context, ownerID string) (*OwnerContact, error)
}

type Mailer interface {
	SendOwnerMessage(toEmail, listingName, senderEmail, message string) error
}
