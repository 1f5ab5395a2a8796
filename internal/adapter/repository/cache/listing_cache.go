package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/redis/go-redis/v9"
)

const listingTTL = 1 * time.Hour

type ListingCache struct {
	client *redis.Client
}

func NewListingCache(addr string) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr, // e.g., "localhost:6379"
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ListingCache{client: client}, nil
}

func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, "listing:"+id).Bytes()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "listing:"+listing.ID, data, listingTTL).Err()
}

func (c *ListingCache) DeleteListing(ctx context.Context, id string) error {
	return c.client.Del(ctx, "listing:"+id).Err()
}
