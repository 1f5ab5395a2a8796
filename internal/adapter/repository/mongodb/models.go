package mongodb

import (
	"fmt"
	"time"

	"github.com/openhaus/listing-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument is the MongoDB shape of a Listing. DiscountedPrice is a
// pointer with omitempty so the field is absent from the document whenever
// the listing carries no offer.
type listingDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Type            string             `bson:"type"`
	Name            string             `bson:"name"`
	Bedrooms        int                `bson:"bedrooms"`
	Bathrooms       int                `bson:"bathrooms"`
	Parking         bool               `bson:"parking"`
	Furnished       bool               `bson:"furnished"`
	Location        string             `bson:"location"`
	Offer           bool               `bson:"offer"`
	RegularPrice    float64            `bson:"regular_price"`
	DiscountedPrice *float64           `bson:"discounted_price,omitempty"`
	ImageURLs       []string           `bson:"img_urls"`
	Geolocation     geoDocument        `bson:"geolocation"`
	OwnerID         string             `bson:"user_ref"`
	CreatedAt       time.Time          `bson:"timestamp"`
}

type geoDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid ID format '%s': %w", l.ID, err)
		}
	}

	return &listingDocument{
		ID:              docID,
		Type:            string(l.Type),
		Name:            l.Name,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		Parking:         l.Parking,
		Furnished:       l.Furnished,
		Location:        l.Location,
		Offer:           l.Offer,
		RegularPrice:    l.RegularPrice,
		DiscountedPrice: l.DiscountedPrice,
		ImageURLs:       l.ImageURLs,
		Geolocation:     geoDocument{Lat: l.Geolocation.Lat, Lng: l.Geolocation.Lng},
		OwnerID:         l.OwnerID,
		CreatedAt:       l.CreatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:              d.ID.Hex(),
		Type:            domain.ListingType(d.Type),
		Name:            d.Name,
		Bedrooms:        d.Bedrooms,
		Bathrooms:       d.Bathrooms,
		Parking:         d.Parking,
		Furnished:       d.Furnished,
		Location:        d.Location,
		Offer:           d.Offer,
		RegularPrice:    d.RegularPrice,
		DiscountedPrice: d.DiscountedPrice,
		ImageURLs:       d.ImageURLs,
		Geolocation:     domain.GeoPoint{Lat: d.Geolocation.Lat, Lng: d.Geolocation.Lng},
		OwnerID:         d.OwnerID,
		CreatedAt:       d.CreatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toUserDocument(u *domain.User) (*userDocument, error) {
	if u == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if u.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("toUserDocument: invalid ID format '%s': %w", u.ID, err)
		}
	}

	return &userDocument{
		ID:           docID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}, nil
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}
