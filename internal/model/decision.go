package model

// CategoryCandidate is one ranked taxonomy alternative, produced when no
// two category sources agree and the catalog is scored against the
// available evidence.
type CategoryCandidate struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Decision is the immutable outcome of validating one textual attribute.
// It is never mutated after creation; re-running a validator produces a
// fresh decision that supersedes the old one.
type Decision struct {
	Attribute    string              `json:"attribute"`
	Value        string              `json:"value"`
	Confidence   int                 `json:"confidence"`
	Source       SourceID            `json:"source"`
	Rationale    string              `json:"rationale"`
	Divergences  []string            `json:"divergences,omitempty"`
	Alerts       []string            `json:"alerts,omitempty"`
	Alternatives []CategoryCandidate `json:"alternatives,omitempty"`
}

// GeoDecision is the outcome of coordinate consensus. WithinRegion and
// WithinLocality are set only when region metadata was supplied; they are
// advisory and never change the consensus confidence.
type GeoDecision struct {
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Confidence     int      `json:"confidence"`
	Source         SourceID `json:"source"`
	Rationale      string   `json:"rationale"`
	Divergences    []string `json:"divergences,omitempty"`
	WithinRegion   *bool    `json:"within_region,omitempty"`
	WithinLocality *bool    `json:"within_locality,omitempty"`
}

// ResolvedEntity is the per-attribute output of one resolution run.
// Attributes that failed (no evidence, invalid coordinates) carry a
// minimal-confidence placeholder decision rather than being absent.
type ResolvedEntity struct {
	ResolutionID string       `json:"resolution_id"`
	EntityID     string       `json:"entity_id,omitempty"`
	Name         *Decision    `json:"name,omitempty"`
	Address      *Decision    `json:"address,omitempty"`
	Category     *Decision    `json:"category,omitempty"`
	Location     *GeoDecision `json:"location,omitempty"`
}
