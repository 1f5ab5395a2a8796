package usecase

import (
	"context"
	"testing"

	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo wraps the fake repository to count FindByID calls and record
// the limit passed to FindByType.
type countingRepo struct {
	*fakeListingRepo
	findByIDCalls int
	lastLimit     int64
}

func (r *countingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	r.findByIDCalls++
	return r.fakeListingRepo.FindByID(ctx, id)
}

func (r *countingRepo) FindByType(ctx context.Context, t domain.ListingType, limit int64) ([]*domain.Listing, error) {
	r.lastLimit = limit
	return r.fakeListingRepo.FindByType(ctx, t, limit)
}

func seedListing(t *testing.T, repo domain.ListingRepository, owner string, listingType domain.ListingType) string {
	t.Helper()
	listing := &domain.Listing{
		Type:         listingType,
		Name:         "Seeded listing",
		Bedrooms:     1,
		Bathrooms:    1,
		Location:     "1 Main Street",
		RegularPrice: 900,
		ImageURLs:    []string{"https://storage.example.com/bucket/images/cover.jpg"},
		OwnerID:      owner,
	}
	require.NoError(t, repo.Create(context.Background(), listing))
	return listing.ID
}

func TestListByCategory_DefaultsLimit(t *testing.T) {
	repo := &countingRepo{fakeListingRepo: newFakeListingRepo()}
	uc := NewQueryUsecase(repo, nil, nil, testLogger())

	_, err := uc.ListByCategory(context.Background(), domain.TypeRent, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(defaultCategoryLimit), repo.lastLimit)

	_, err = uc.ListByCategory(context.Background(), domain.TypeRent, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), repo.lastLimit)
}

func TestGetListing_CacheMissPopulatesCache(t *testing.T) {
	repo := &countingRepo{fakeListingRepo: newFakeListingRepo()}
	c := newFakeCache()
	uc := NewQueryUsecase(repo, c, nil, testLogger())

	id := seedListing(t, repo, "user-a", domain.TypeRent)

	got, err := uc.GetListing(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 1, repo.findByIDCalls)
	assert.NotNil(t, c.store[id])
}

func TestGetListing_CacheHitSkipsRepository(t *testing.T) {
	repo := &countingRepo{fakeListingRepo: newFakeListingRepo()}
	c := newFakeCache()
	uc := NewQueryUsecase(repo, c, nil, testLogger())

	id := seedListing(t, repo, "user-a", domain.TypeRent)

	_, err := uc.GetListing(context.Background(), id)
	require.NoError(t, err)
	_, err = uc.GetListing(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findByIDCalls)
}

func TestGetListing_NotFound(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewQueryUsecase(repo, nil, nil, testLogger())

	_, err := uc.GetListing(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestDeleteListing_RemovesFromOwnerListings(t *testing.T) {
	repo := newFakeListingRepo()
	c := newFakeCache()
	pub := &fakePublisher{}
	uc := NewQueryUsecase(repo, c, pub, testLogger())

	id := seedListing(t, repo, "user-a", domain.TypeSale)
	seedListing(t, repo, "user-a", domain.TypeRent)

	require.NoError(t, uc.DeleteListing(context.Background(), id, "user-a"))

	remaining, err := uc.ListByOwner(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.NotEqual(t, id, remaining[0].ID)
	assert.Contains(t, c.deletes, id)
	assert.Equal(t, []string{"listings.deleted"}, pub.subjects)
}

func TestDeleteListing_NonOwnerForbidden(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewQueryUsecase(repo, nil, nil, testLogger())

	id := seedListing(t, repo, "user-a", domain.TypeSale)

	err := uc.DeleteListing(context.Background(), id, "user-b")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// still present
	_, err = uc.GetListing(context.Background(), id)
	assert.NoError(t, err)
}

func TestDeleteListing_MissingListing(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewQueryUsecase(repo, nil, nil, testLogger())

	err := uc.DeleteListing(context.Background(), "missing", "user-a")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestRoundTrip_CreateThenListByCategory(t *testing.T) {
	f := newSubmissionFixture(true)
	queryUc := NewQueryUsecase(f.repo, nil, nil, testLogger())

	form := validForm()
	form.Offer = true
	form.RegularPrice = 2000
	form.DiscountedPrice = 1750

	id, err := f.uc.Submit(context.Background(), form, ModeCreate, "", "user-a")
	require.NoError(t, err)

	listings, err := queryUc.ListByCategory(context.Background(), domain.TypeRent, 10)
	require.NoError(t, err)
	require.Len(t, listings, 1)

	got := listings[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, form.Type, got.Type)
	assert.Equal(t, form.Name, got.Name)
	assert.Equal(t, form.Bedrooms, got.Bedrooms)
	assert.Equal(t, form.Bathrooms, got.Bathrooms)
	assert.Equal(t, form.Parking, got.Parking)
	assert.Equal(t, form.Furnished, got.Furnished)
	assert.Equal(t, form.Address, got.Location)
	assert.Equal(t, form.Offer, got.Offer)
	assert.Equal(t, form.RegularPrice, got.RegularPrice)
	require.NotNil(t, got.DiscountedPrice)
	assert.Equal(t, form.DiscountedPrice, *got.DiscountedPrice)
	assert.Len(t, got.ImageURLs, len(form.Images))
	assert.Equal(t, "user-a", got.OwnerID)
	assert.False(t, got.CreatedAt.IsZero())
}
