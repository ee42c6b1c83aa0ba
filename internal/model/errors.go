package model

import "github.com/rotisserie/eris"

// Sentinel errors for the validation engine. Anything not listed here
// (divergent sources, suspected hallucinations, low confidence) is not an
// error: it is reported on the decision itself via alerts and needsReview.
var (
	// ErrNoEvidence means zero sources were available for a required
	// attribute. Fatal for that attribute, never for the whole entity.
	ErrNoEvidence = eris.New("no evidence available")

	// ErrDuplicateKey means a cache entry already exists for a content
	// hash. Callers must Get before Set, so this is a programmer error.
	ErrDuplicateKey = eris.New("duplicate cache key")

	// ErrInvalidCoordinate means a latitude/longitude pair is outside
	// valid global ranges. Fails the coordinate attribute only.
	ErrInvalidCoordinate = eris.New("coordinate outside valid range")
)
