package domain

import (
	"context"
	"io"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	// Replace overwrites the full document at listing.ID.
	Replace(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindByType returns listings of the given type, newest first.
	FindByType(ctx context.Context, t ListingType, limit int64) ([]*Listing, error)
	// FindByOwner returns the owner's listings, newest first.
	FindByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateName(ctx context.Context, id, name string) error
}

// ProgressFunc observes upload progress. It carries no behavioral weight:
// the submission outcome does not depend on it being called.
type ProgressFunc func(transferred, total int64)

type ImageStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, progress ProgressFunc) (string, error)
}

type GeocodeResult struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
}

type Geocoder interface {
	Resolve(ctx context.Context, address string) (*GeocodeResult, error)
}
