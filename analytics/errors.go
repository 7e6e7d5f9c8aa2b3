package analytics

import "errors"

// Sentinel errors surfaced by the analytics service. Controllers translate
// these to HTTP statuses; anything else is a persistence failure.
var (
	// ErrNotFound means the article (or owned-article-scoped resource) does not exist.
	ErrNotFound = errors.New("analytics: not found")
	// ErrUnauthorized means the caller identity is missing.
	ErrUnauthorized = errors.New("analytics: caller identity required")
	// ErrInvalidReference means a malformed identifier was supplied.
	ErrInvalidReference = errors.New("analytics: invalid reference")
)
