package domain

import "errors"

var (
	// ErrProductNotFound is returned when a food cannot be found in the USDA database
	ErrProductNotFound = errors.New("product not found in USDA database")

	// ErrLowConfidence is returned when the match confidence is below the threshold
	ErrLowConfidence = errors.New("match confidence below threshold")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrTextTooLarge is returned when submitted label text exceeds the configured limit
	ErrTextTooLarge = errors.New("label text too large")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUSDAAPIFailure is returned when USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrLookupUnavailable is returned when food lookup has no USDA client configured
	ErrLookupUnavailable = errors.New("food lookup not configured")
)
