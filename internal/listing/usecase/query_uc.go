package usecase

import (
	"context"
	"time"

	"github.com/openhaus/listing-service/internal/adapter/messaging/nats"
	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/platform/logger"
)

const defaultCategoryLimit = 10

// ListingCache matches the Redis listing cache. A nil cache disables
// caching without changing behavior.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// QueryUsecase serves the read side: category pages, the owner's listing
// collection, single-listing fetches, and owned deletes.
type QueryUsecase struct {
	repo      domain.ListingRepository
	cache     ListingCache
	publisher EventPublisher
	logger    *logger.Logger
}

func NewQueryUsecase(repo domain.ListingRepository, cache ListingCache, publisher EventPublisher, log *logger.Logger) *QueryUsecase {
	return &QueryUsecase{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

// ListByCategory returns listings of one type ordered by creation time
// descending. A non-positive limit falls back to the default page size.
func (uc *QueryUsecase) ListByCategory(ctx context.Context, category domain.ListingType, limit int64) ([]*domain.Listing, error) {
	if limit <= 0 {
		limit = defaultCategoryLimit
	}
	listings, err := uc.repo.FindByType(ctx, category, limit)
	if err != nil {
		uc.logger.Error("QueryUsecase.ListByCategory: query failed", "category", string(category), "error", err.Error())
		return nil, err
	}
	return listings, nil
}

// ListByOwner returns the owner's listings, newest first.
func (uc *QueryUsecase) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("QueryUsecase.ListByOwner: query failed", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}
	return listings, nil
}

// GetListing is a read-through cached fetch of a single listing.
func (uc *QueryUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	if uc.cache != nil {
		cached, err := uc.cache.GetListing(ctx, id)
		if err != nil {
			uc.logger.Warn("QueryUsecase.GetListing: cache read failed", "listing_id", id, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetListing(ctx, listing); err != nil {
			uc.logger.Warn("QueryUsecase.GetListing: cache write failed", "listing_id", id, "error", err.Error())
		}
	}
	return listing, nil
}

// DeleteListing removes a listing after verifying the caller owns it.
func (uc *QueryUsecase) DeleteListing(ctx context.Context, id, userID string) error {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logger.Warn("QueryUsecase.DeleteListing: listing not found", "listing_id", id, "error", err.Error())
		return err
	}
	if listing.OwnerID != userID {
		uc.logger.Warn("QueryUsecase.DeleteListing: forbidden",
			"listing_id", id, "listing_owner_id", listing.OwnerID, "user_id_performing_action", userID)
		return domain.ErrForbidden
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("QueryUsecase.DeleteListing: delete failed", "listing_id", id, "error", err.Error())
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, id); err != nil {
			uc.logger.Warn("QueryUsecase.DeleteListing: cache invalidation failed", "listing_id", id, "error", err.Error())
		}
	}
	if uc.publisher != nil {
		event := nats.ListingEvent{
			ListingID:  id,
			OwnerID:    listing.OwnerID,
			Type:       string(listing.Type),
			OccurredAt: time.Now(),
		}
		if err := uc.publisher.Publish(ctx, nats.SubjectListingDeleted, event); err != nil {
			uc.logger.Warn("QueryUsecase.DeleteListing: event publish failed", "listing_id", id, "error", err.Error())
		}
	}
	return nil
}
