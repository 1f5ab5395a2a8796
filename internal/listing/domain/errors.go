package domain

import "errors"

var (
	ErrInvalidPricing     = errors.New("discounted price must be less than regular price")
	ErrTooManyImages      = errors.New("a listing can have at most 6 images")
	ErrAddressUnresolved  = errors.New("address could not be resolved")
	ErrImageUploadFailed  = errors.New("image upload failed")
	ErrPersistFailed      = errors.New("listing could not be saved")
	ErrListingNotFound    = errors.New("listing not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("user not authorized to perform this action")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)
