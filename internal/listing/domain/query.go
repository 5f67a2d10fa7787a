package domain

import (
	"fmt"
	"time"
)

// FilterField names the single field an equality filter may target. Compound
// filters are deliberately unsupported.
type FilterField string

const (
	FilterOffer FilterField = "offer"
	FilterType  FilterField = "type"
	FilterOwner FilterField = "ownerRef"
)

// Filter is an optional single-field equality predicate.
type Filter struct {
	Field FilterField
	Value any
}

func FilterByOffer() *Filter {
	return &Filter{Field: FilterOffer, Value: true}
}

func FilterByType(t TransactionType) *Filter {
	return &Filter{Field: FilterType, Value: string(t)}
}

func FilterByOwner(ownerID string) *Filter {
	return &Filter{Field: FilterOwner, Value: ownerID}
}

// Fingerprint is a stable description of the query shape a cursor is bound to.
func (f *Filter) Fingerprint() string {
	if f == nil {
		return "all"
	}
	return fmt.Sprintf("%s=%v", f.Field, f.Value)
}

// PageAnchor identifies the last record of a fetched page. Ordering is fixed
// to creation time descending with the store-assigned id as an ascending
// tie-break, so the pair is enough to resume deterministically.
type PageAnchor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// PageQuery is the decoded form a repository executes.
type PageQuery struct {
	Filter *Filter
	After  *PageAnchor
	Limit  int
}
