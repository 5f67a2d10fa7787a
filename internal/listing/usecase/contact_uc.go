package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/listing/domain"
)

// ContactUsecase relays a message from an interested caller to the owner of a
// listing by email.
type ContactUsecase struct {
	repo   domain.ListingRepository
	owners domain.OwnerDirectory
	mailer domain.Mailer
	logger *zap.Logger
}

func NewContactUsecase(repo domain.ListingRepository, owners domain.OwnerDirectory, mailer domain.Mailer, logger *zap.Logger) *ContactUsecase {
	return &ContactUsecase{repo: repo, owners: owners, mailer: mailer, logger: logger}
}

func (uc *ContactUsecase) ContactOwner(ctx context.Context, listingID, senderEmail, message string) error {
	if senderEmail == "" {
		return &domain.ValidationError{Field: "senderEmail", Reason: "must not be empty"}
	}
	if message == "" {
		return &domain.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	contact, err := uc.owners.ContactByID(ctx, listing.OwnerRef)
	if err != nil {
		uc.logger.Warn("owner lookup failed",
			zap.String("listing_id", listingID),
			zap.String("owner_ref", listing.OwnerRef),
			zap.Error(err))
		return err
	}

	if err := uc.mailer.SendOwnerMessage(contact.Email, listing.Name, senderEmail, message); err != nil {
		uc.logger.Error("owner message delivery failed",
			zap.String("listing_id", listingID), zap.Error(err))
		return fmt.Errorf("send owner message: %w", err)
	}

	uc.logger.Info("owner message sent",
		zap.String("listing_id", listingID),
		zap.String("owner_ref", listing.OwnerRef))
	return nil
}
