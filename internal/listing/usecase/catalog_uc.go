package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// DefaultRecentLimit matches the front-page slider of the marketplace client.
const DefaultRecentLimit = 5

type CatalogQuery struct {
	Filter   *domain.Filter
	Cursor   string
	PageSize int
}

type CatalogPage struct {
	Listings []*domain.Listing
	// NextCursor is empty once the result set is exhausted; a page shorter
	// than the requested size is the only exhaustion signal.
	NextCursor string
}

// CatalogUsecase executes filtered, ordered, cursor-paginated queries against
// the listing collection. It is read-only and reentrant.
type CatalogUsecase struct {
	repo   domain.ListingRepository
	logger *zap.Logger
}

func NewCatalogUsecase(repo domain.ListingRepository, logger *zap.Logger) *CatalogUsecase {
	return &CatalogUsecase{repo: repo, logger: logger}
}

func (uc *CatalogUsecase) SearchListings(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	if q.PageSize <= 0 {
		return nil, &domain.ValidationError{Field: "pageSize", Reason: "must be a positive integer"}
	}

	var after *domain.PageAnchor
	if q.Cursor != "" {
		anchor, err := decodeCursor(q.Cursor, q.Filter)
		if err != nil {
			return nil, err
		}
		after = anchor
	}

	listings, err := uc.repo.FindPage(ctx, domain.PageQuery{
		Filter: q.Filter,
		After:  after,
		Limit:  q.PageSize,
	})
	if err != nil {
		uc.logger.Error("catalog page fetch failed",
			zap.String("shape", q.Filter.Fingerprint()),
			zap.Int("page_size", q.PageSize),
			zap.Error(err))
		return nil, err
	}

	page := &CatalogPage{Listings: listings}
	if len(listings) == q.PageSize {
		cursor, err := encodeCursor(q.Filter, listings[len(listings)-1])
		if err != nil {
			return nil, err
		}
		page.NextCursor = cursor
	}

	uc.logger.Debug("catalog page fetched",
		zap.String("shape", q.Filter.Fingerprint()),
		zap.Int("count", len(listings)),
		zap.Bool("has_more", page.NextCursor != ""))
	return page, nil
}

// RecentListings returns the newest listings across all filters, for the
// browse view's slider.
func (uc *CatalogUsecase) RecentListings(ctx context.Context, limit int) ([]*domain.Listing, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return uc.repo.FindPage(ctx, domain.PageQuery{Limit: limit})
}
