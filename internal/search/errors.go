package search

import "errors"

var (
	// ErrUnavailable indicates the search service could not be reached.
	ErrUnavailable = errors.New("search service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("search request timed out")

	// ErrInvalidResponse indicates the service rejected the request (4xx) or
	// the response body could not be decoded into ranked results.
	ErrInvalidResponse = errors.New("invalid search response")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("search retry attempts exhausted")
)
