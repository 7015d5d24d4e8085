// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error kinds surfaced by the pipeline. Components wrap these with context;
// callers test with errors.Is. None of them is retried.
var (
	// ErrNetwork reports a connection failure, timeout, or unusable response.
	ErrNetwork = errors.New("network error")

	// ErrNotFound reports that the site has no problem for the slug.
	ErrNotFound = errors.New("problem not found")

	// ErrParse reports that the page lacks the structure the extractor expects,
	// usually because the site layout changed.
	ErrParse = errors.New("unexpected page structure")

	// ErrInvalidSlug reports a problem name that cannot form a slug.
	ErrInvalidSlug = errors.New("invalid problem slug")
)
