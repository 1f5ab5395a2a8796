package domain

import "time"

type ListingType string

const (
	TypeSale ListingType = "sale"
	TypeRent ListingType = "rent"
)

// GeoPoint is a latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is the persisted property record. OwnerID is set once on creation
// and never changes; CreatedAt is assigned by the repository on insert.
// DiscountedPrice is present only when Offer is true.
type Listing struct {
	ID              string      `json:"id"`
	Type            ListingType `json:"type"`
	Name            string      `json:"name"`
	Bedrooms        int         `json:"bedrooms"`
	Bathrooms       int         `json:"bathrooms"`
	Parking         bool        `json:"parking"`
	Furnished       bool        `json:"furnished"`
	Location        string      `json:"location"`
	Offer           bool        `json:"offer"`
	RegularPrice    float64     `json:"regularPrice"`
	DiscountedPrice *float64    `json:"discountedPrice,omitempty"`
	ImageURLs       []string    `json:"imgUrls"`
	Geolocation     GeoPoint    `json:"geolocation"`
	OwnerID         string      `json:"userRef"`
	CreatedAt       time.Time   `json:"timestamp"`
}

// ImageFile is a raw image payload as received from the create/edit form.
// It never reaches the database; only the resolved storage URL is persisted.
type ImageFile struct {
	Name string
	Data []byte
}

// ListingForm holds the in-progress submission fields. Address is the
// free-text input; Latitude and Longitude are only consulted when
// geocoding is disabled.
type ListingForm struct {
	Type            ListingType
	Name            string
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Address         string
	Offer           bool
	RegularPrice    float64
	DiscountedPrice float64
	Images          []ImageFile
	Latitude        float64
	Longitude       float64
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
