package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("listings"),
		logger:     log,
	}
}

// Create inserts the listing and assigns its ID and server timestamp back
// onto the domain object.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	listing.ID = primitive.NewObjectID().Hex()
	listing.CreatedAt = time.Now()

	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("ListingRepository.Create: insert failed", "listing_id", listing.ID, "error", err.Error())
		return err
	}
	return nil
}

// Replace overwrites the full document at listing.ID. The caller is
// responsible for carrying over the original owner and timestamp.
func (r *ListingRepository) Replace(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		r.logger.Error("ListingRepository.Replace: replace failed", "listing_id", listing.ID, "error", err.Error())
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Error("ListingRepository.Delete: delete failed", "listing_id", id, "error", err.Error())
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByType(ctx context.Context, t domain.ListingType, limit int64) ([]*domain.Listing, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"type": string(t)}, opts)
	if err != nil {
		r.logger.Error("ListingRepository.FindByType: query failed", "type", string(t), "error", err.Error())
		return nil, err
	}

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_ref": ownerID}, opts)
	if err != nil {
		r.logger.Error("ListingRepository.FindByOwner: query failed", "owner_id", ownerID, "error", err.Error())
		return nil, err
	}

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainListings(docs), nil
}
