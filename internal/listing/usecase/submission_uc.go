package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openhaus/listing-service/internal/adapter/messaging/nats"
	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("listing-service/submission")

const maxListingImages = 6

type SubmissionMode string

const (
	ModeCreate SubmissionMode = "create"
	ModeEdit   SubmissionMode = "edit"
)

// EventPublisher matches the NATS publisher; failures to publish never fail
// a submission.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// SubmissionUsecase sequences one listing submission: validate, resolve the
// location, upload images in parallel, assemble the record, persist it.
// Each step is an early-exit point; images already uploaded when a later
// step fails are left behind in storage.
type SubmissionUsecase struct {
	repo             domain.ListingRepository
	storage          domain.ImageStorage
	geocoder         domain.Geocoder
	cache            ListingCache
	publisher        EventPublisher
	geocodingEnabled bool
	logger           *logger.Logger
}

func NewSubmissionUsecase(
	repo domain.ListingRepository,
	storage domain.ImageStorage,
	geocoder domain.Geocoder,
	cache ListingCache,
	publisher EventPublisher,
	geocodingEnabled bool,
	log *logger.Logger,
) *SubmissionUsecase {
	return &SubmissionUsecase{
		repo:             repo,
		storage:          storage,
		geocoder:         geocoder,
		cache:            cache,
		publisher:        publisher,
		geocodingEnabled: geocodingEnabled,
		logger:           log,
	}
}

// Submit runs the full submission sequence and returns the listing ID on
// success. In edit mode the ownership check runs first, before anything is
// validated or uploaded, mirroring the edit page's access check on load.
func (uc *SubmissionUsecase) Submit(ctx context.Context, form *domain.ListingForm, mode SubmissionMode, existingID, userID string) (string, error) {
	ctx, span := tracer.Start(ctx, "SubmissionUsecase.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("mode", string(mode)), attribute.String("user_id", userID))

	uc.logger.Info("SubmissionUsecase.Submit: starting submission",
		"mode", string(mode), "user_id", userID, "listing_name", form.Name)

	var existing *domain.Listing
	if mode == ModeEdit {
		var err error
		existing, err = uc.repo.FindByID(ctx, existingID)
		if err != nil {
			uc.logger.Warn("SubmissionUsecase.Submit: listing to edit not found", "listing_id", existingID, "error", err.Error())
			return "", err
		}
		if existing.OwnerID != userID {
			uc.logger.Warn("SubmissionUsecase.Submit: edit forbidden",
				"listing_id", existingID, "listing_owner_id", existing.OwnerID, "user_id_performing_action", userID)
			return "", domain.ErrForbidden
		}
	}

	// The discount comparison runs whether or not an offer is set; forms
	// without an offer pass because their discounted price defaults to 0.
	if form.DiscountedPrice >= form.RegularPrice {
		return "", domain.ErrInvalidPricing
	}
	if len(form.Images) > maxListingImages {
		return "", domain.ErrTooManyImages
	}

	geolocation, err := uc.resolveLocation(ctx, form)
	if err != nil {
		return "", err
	}

	imageURLs, err := uc.uploadImages(ctx, userID, form.Images)
	if err != nil {
		return "", err
	}

	listing := assembleListing(form, geolocation, imageURLs, userID)

	if mode == ModeEdit {
		listing.ID = existing.ID
		listing.OwnerID = existing.OwnerID
		listing.CreatedAt = existing.CreatedAt
		if err := uc.repo.Replace(ctx, listing); err != nil {
			uc.logger.Error("SubmissionUsecase.Submit: replace failed", "listing_id", listing.ID, "error", err.Error())
			return "", fmt.Errorf("%w: %s", domain.ErrPersistFailed, err)
		}
		uc.invalidateCache(ctx, listing.ID)
		uc.publishEvent(ctx, nats.SubjectListingUpdated, listing)
	} else {
		if err := uc.repo.Create(ctx, listing); err != nil {
			uc.logger.Error("SubmissionUsecase.Submit: create failed", "user_id", userID, "error", err.Error())
			return "", fmt.Errorf("%w: %s", domain.ErrPersistFailed, err)
		}
		uc.publishEvent(ctx, nats.SubjectListingCreated, listing)
	}

	uc.logger.Info("SubmissionUsecase.Submit: listing saved", "listing_id", listing.ID, "mode", string(mode))
	return listing.ID, nil
}

// resolveLocation determines the geolocation pair. With geocoding enabled
// the resolved formatted address is only checked for resolvability; the
// persisted location string stays the user-typed address either way.
func (uc *SubmissionUsecase) resolveLocation(ctx context.Context, form *domain.ListingForm) (domain.GeoPoint, error) {
	ctx, span := tracer.Start(ctx, "SubmissionUsecase.resolveLocation")
	defer span.End()

	if !uc.geocodingEnabled {
		return domain.GeoPoint{Lat: form.Latitude, Lng: form.Longitude}, nil
	}

	result, err := uc.geocoder.Resolve(ctx, form.Address)
	if err != nil {
		if errors.Is(err, domain.ErrAddressUnresolved) {
			return domain.GeoPoint{}, err
		}
		uc.logger.Error("SubmissionUsecase.resolveLocation: geocoder call failed", "address", form.Address, "error", err.Error())
		return domain.GeoPoint{}, fmt.Errorf("%w: %s", domain.ErrAddressUnresolved, err)
	}

	// The upstream service occasionally interpolates the literal token
	// "undefined" into partially matched addresses; treat those as misses.
	if result.FormattedAddress == "" || strings.Contains(result.FormattedAddress, "undefined") {
		return domain.GeoPoint{}, domain.ErrAddressUnresolved
	}

	return domain.GeoPoint{Lat: result.Lat, Lng: result.Lng}, nil
}

// uploadImages fans out one upload task per file and waits for every task
// to settle. Any failure fails the whole batch; objects uploaded before the
// failure are not removed.
func (uc *SubmissionUsecase) uploadImages(ctx context.Context, ownerID string, images []domain.ImageFile) ([]string, error) {
	ctx, span := tracer.Start(ctx, "SubmissionUsecase.uploadImages")
	defer span.End()
	span.SetAttributes(attribute.Int("image_count", len(images)))

	urls := make([]string, len(images))
	var g errgroup.Group
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			key := fmt.Sprintf("images/%s-%s-%s", ownerID, img.Name, uuid.New().String())
			url, err := uc.storage.Upload(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), func(transferred, total int64) {
				uc.logger.Debug("image upload progress", "key", key, "transferred", transferred, "total", total)
			})
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.logger.Error("SubmissionUsecase.uploadImages: upload failed", "owner_id", ownerID, "error", err.Error())
		return nil, fmt.Errorf("%w: %s", domain.ErrImageUploadFailed, err)
	}
	return urls, nil
}

// assembleListing merges the validated form with the resolved geolocation
// and uploaded image URLs. Raw files and the separate coordinate inputs are
// dropped here, and the discounted price is omitted entirely when there is
// no offer.
func assembleListing(form *domain.ListingForm, geo domain.GeoPoint, imageURLs []string, ownerID string) *domain.Listing {
	listing := &domain.Listing{
		Type:         form.Type,
		Name:         form.Name,
		Bedrooms:     form.Bedrooms,
		Bathrooms:    form.Bathrooms,
		Parking:      form.Parking,
		Furnished:    form.Furnished,
		Location:     form.Address,
		Offer:        form.Offer,
		RegularPrice: form.RegularPrice,
		ImageURLs:    imageURLs,
		Geolocation:  geo,
		OwnerID:      ownerID,
	}
	if form.Offer {
		discounted := form.DiscountedPrice
		listing.DiscountedPrice = &discounted
	}
	return listing
}

func (uc *SubmissionUsecase) invalidateCache(ctx context.Context, listingID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.logger.Warn("SubmissionUsecase: cache invalidation failed", "listing_id", listingID, "error", err.Error())
	}
}

func (uc *SubmissionUsecase) publishEvent(ctx context.Context, subject string, listing *domain.Listing) {
	if uc.publisher == nil {
		return
	}
	event := nats.ListingEvent{
		ListingID:  listing.ID,
		OwnerID:    listing.OwnerID,
		Type:       string(listing.Type),
		OccurredAt: time.Now(),
	}
	if err := uc.publisher.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("SubmissionUsecase: event publish failed", "subject", subject, "listing_id", listing.ID, "error", err.Error())
	}
}
