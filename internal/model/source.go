// Package model defines the shared data contracts for the consensus engine:
// evidence sources, validation decisions, and the resolved entity shape.
package model

// SourceID identifies an evidence provider. The engine never talks to
// providers directly; it only reconciles their typed results.
type SourceID string

const (
	SourceRegistry      SourceID = "registry"
	SourcePlaceSearch   SourceID = "place_search"
	SourceClassifier    SourceID = "classifier"
	SourceOriginalInput SourceID = "original_input"
	SourceGeocoderA     SourceID = "geocoder_a"
	SourceGeocoderB     SourceID = "geocoder_b"

	// SourceConsensus marks a value agreed upon by two or more
	// independent sources rather than taken from any single one.
	SourceConsensus SourceID = "consensus"

	// SourceDeterministic marks a value produced by the engine's own
	// rule tables (e.g. deterministic address normalization).
	SourceDeterministic SourceID = "deterministic"
)

// sourceOrder is the stable enum ordering used to break ties between
// sources with equal priority. Deterministic by construction.
var sourceOrder = []SourceID{
	SourceRegistry,
	SourcePlaceSearch,
	SourceClassifier,
	SourceDeterministic,
	SourceOriginalInput,
	SourceGeocoderA,
	SourceGeocoderB,
}

// sourcePriority ranks sources by authority: the tax registry beats a
// public listing, which beats whatever the record originally contained.
var sourcePriority = map[SourceID]int{
	SourceRegistry:      100,
	SourcePlaceSearch:   80,
	SourceClassifier:    60,
	SourceDeterministic: 50,
	SourceOriginalInput: 40,
	SourceGeocoderA:     20,
	SourceGeocoderB:     20,
}

// Priority returns the authority rank of a source. Unknown sources rank
// lowest so a misconfigured caller can never outrank the registry.
func Priority(s SourceID) int {
	return sourcePriority[s]
}

// OrderIndex returns the position of a source in the stable enum order,
// used as a deterministic tie-break when priorities are equal.
func OrderIndex(s SourceID) int {
	for i, id := range sourceOrder {
		if id == s {
			return i
		}
	}
	return len(sourceOrder)
}

// MorePreferred reports whether a should be chosen over b when both carry
// equally similar values: higher priority wins, enum order breaks ties.
func MorePreferred(a, b SourceID) bool {
	pa, pb := Priority(a), Priority(b)
	if pa != pb {
		return pa > pb
	}
	return OrderIndex(a) < OrderIndex(b)
}
