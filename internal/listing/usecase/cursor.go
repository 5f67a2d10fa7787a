package usecase

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// cursorToken is the wire form of a page cursor. The shape fingerprint binds
// the token to the (filter, ordering) combination that produced it; a token
// presented against a different shape is rejected rather than silently
// returning wrong-shape results.
type cursorToken struct {
	Shape     string    `json:"shape"`
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// Ordering is fixed: creation time descending, store id ascending tie-break.
const orderingFingerprint = "createdAt desc,id asc"

func shapeFingerprint(filter *domain.Filter) string {
	return filter.Fingerprint() + "|" + orderingFingerprint
}

func encodeCursor(filter *domain.Filter, last *domain.Listing) (string, error) {
	raw, err := json.Marshal(cursorToken{
		Shape:     shapeFingerprint(filter),
		CreatedAt: last.CreatedAt,
		ID:        last.ID,
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(token string, filter *domain.Filter) (*domain.PageAnchor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, &domain.ValidationError{Field: "cursor", Reason: "malformed token"}
	}
	var ct cursorToken
	if err := json.Unmarshal(raw, &ct); err != nil {
		return nil, &domain.ValidationError{Field: "cursor", Reason: "malformed token"}
	}
	if ct.Shape != shapeFingerprint(filter) {
		return nil, domain.ErrCursorShapeMismatch
	}
	return &domain.PageAnchor{CreatedAt: ct.CreatedAt, ID: ct.ID}, nil
}
