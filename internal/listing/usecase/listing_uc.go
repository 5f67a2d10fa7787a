package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// ListingUsecase coordinates a submission end to end: validate the input,
// resolve geocode and image uploads concurrently, then commit a single write.
// No partial write ever happens; either both resolution steps succeed or the
// submission fails with that step's error.
type ListingUsecase struct {
	repo     domain.ListingRepository
	geocoder domain.Geocoder
	uploader *MediaUploader
	cache    domain.ListingCache
	events   domain.EventPublisher
	logger   *zap.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	geocoder domain.Geocoder,
	uploader *MediaUploader,
	cache domain.ListingCache,
	events domain.EventPublisher,
	logger *zap.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:     repo,
		geocoder: geocoder,
		uploader: uploader,
		cache:    cache,
		events:   events,
		logger:   logger,
	}
}

// SubmitListing creates a listing owned by ownerID. The owner always comes
// from the authenticated caller, never from client-supplied input.
func (uc *ListingUsecase) SubmitListing(ctx context.Context, ownerID string, in domain.SubmissionInput, images []domain.ImagePayload) (*domain.Listing, error) {
	if err := in.Validate(len(images)); err != nil {
		return nil, err
	}

	geo, urls, err := uc.resolve(ctx, ownerID, in.Address, images)
	if err != nil {
		uc.logger.Warn("listing submission failed during resolution",
			zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	listing := buildListing(in, geo, urls, ownerID)
	id, err := uc.repo.Create(ctx, listing)
	if err != nil {
		uc.logger.Error("listing create failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	listing.ID = id

	uc.afterWrite(ctx, "listing.created", listing)
	uc.logger.Info("listing created", zap.String("listing_id", id), zap.String("owner_id", ownerID))
	return listing, nil
}

// UpdateListing replaces all mutable fields of an owned listing. Identifier,
// owner and creation time are preserved. A nil images slice keeps the stored
// image URLs; a non-nil one uploads a fresh batch.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, callerID string, in domain.SubmissionInput, images []domain.ImagePayload) (*domain.Listing, error) {
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerRef != callerID {
		uc.logger.Warn("update forbidden",
			zap.String("listing_id", id),
			zap.String("owner_ref", existing.OwnerRef),
			zap.String("caller_id", callerID))
		return nil, domain.ErrPermissionDenied
	}

	imageCount := len(images)
	if images == nil {
		imageCount = len(existing.ImageURLs)
	}
	if err := in.Validate(imageCount); err != nil {
		return nil, err
	}

	var (
		geo  *domain.GeocodeResult
		urls = existing.ImageURLs
	)
	if images != nil {
		geo, urls, err = uc.resolve(ctx, callerID, in.Address, images)
	} else {
		geo, err = uc.geocoder.Resolve(ctx, in.Address)
	}
	if err != nil {
		uc.logger.Warn("listing update failed during resolution",
			zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	updated := buildListing(in, geo, urls, existing.OwnerRef)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := uc.repo.Replace(ctx, updated); err != nil {
		uc.logger.Error("listing replace failed", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	uc.afterWrite(ctx, "listing.updated", updated)
	uc.logger.Info("listing updated", zap.String("listing_id", id))
	return updated, nil
}

// DeleteListing removes an owned listing from the store and invalidates its
// key in the cached collection view, so a caller's local view never
// contradicts a delete it just issued.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, callerID string) error {
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerRef != callerID {
		uc.logger.Warn("delete forbidden",
			zap.String("listing_id", id),
			zap.String("owner_ref", existing.OwnerRef),
			zap.String("caller_id", callerID))
		return domain.ErrPermissionDenied
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("listing delete failed", zap.String("listing_id", id), zap.Error(err))
		return err
	}

	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.Warn("cache invalidation failed after delete",
			zap.String("listing_id", id), zap.Error(err))
	}
	if err := uc.events.Publish(ctx, "listing.deleted", map[string]string{"id": id, "owner_id": callerID}); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", "listing.deleted"), zap.Error(err))
	}

	uc.logger.Info("listing deleted", zap.String("listing_id", id))
	return nil
}

// GetListingByID is a cache-aside read of a single listing.
func (uc *ListingUsecase) GetListingByID(ctx context.Context, id string) (*domain.Listing, error) {
	cached, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.logger.Warn("cache read failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, listing); err != nil {
		uc.logger.Warn("cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// resolve runs the geocode call and the upload batch concurrently. Both must
// succeed; a failure on either side cancels the other, best effort.
func (uc *ListingUsecase) resolve(ctx context.Context, ownerID, address string, images []domain.ImagePayload) (*domain.GeocodeResult, []string, error) {
	batch, err := uc.uploader.NewBatch(images)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type geoOut struct {
		res *domain.GeocodeResult
		err error
	}
	geoCh := make(chan geoOut, 1)
	go func() {
		res, err := uc.geocoder.Resolve(ctx, address)
		if err != nil {
			cancel()
		}
		geoCh <- geoOut{res: res, err: err}
	}()

	urls, uploadErr := batch.Run(ctx, ownerID)
	if uploadErr != nil {
		cancel()
	}
	geo := <-geoCh

	// When both sides fail, prefer the error that is not a cancellation echo.
	switch {
	case geo.err != nil && !errors.Is(geo.err, context.Canceled):
		return nil, nil, geo.err
	case uploadErr != nil:
		return nil, nil, uploadErr
	case geo.err != nil:
		return nil, nil, geo.err
	}
	return geo.res, urls, nil
}

func (uc *ListingUsecase) afterWrite(ctx context.Context, subject string, listing *domain.Listing) {
	if err := uc.cache.Set(ctx, listing); err != nil {
		uc.logger.Warn("cache write failed", zap.String("listing_id", listing.ID), zap.Error(err))
	}
	payload := map[string]string{"id": listing.ID, "owner_id": listing.OwnerRef}
	if err := uc.events.Publish(ctx, subject, payload); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

// buildListing merges validated fields with the geocode and upload results.
// The discounted price is dropped unless the listing carries an offer. The
// stored location is the caller's address text; the provider's formatted
// address is only used for validation.
func buildListing(in domain.SubmissionInput, geo *domain.GeocodeResult, urls []string, ownerID string) *domain.Listing {
	l := &domain.Listing{
		Type:         in.Type,
		Name:         in.Name,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Parking:      in.Parking,
		Furnished:    in.Furnished,
		Offer:        in.Offer,
		RegularPrice: in.RegularPrice,
		Location:     in.Address,
		Latitude:     geo.Latitude,
		Longitude:    geo.Longitude,
		ImageURLs:    urls,
		OwnerRef:     ownerID,
	}
	if in.Offer {
		l.DiscountedPrice = in.DiscountedPrice
	}
	return l
}
