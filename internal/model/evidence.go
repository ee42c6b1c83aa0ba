package model

import "encoding/json"

// SourceText is one textual value for an attribute, tagged by the source
// that supplied it. An attribute's evidence set is []SourceText; order is
// irrelevant, source identity is not.
type SourceText struct {
	Source SourceID `json:"source"`
	Value  string   `json:"value"`
}

// SourcePoint is one coordinate pair tagged by source.
type SourcePoint struct {
	Source SourceID `json:"source"`
	Lat    float64  `json:"lat"`
	Lng    float64  `json:"lng"`
}

// LatLng is a bare WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Region is optional geographic metadata attached to an entity: the
// claimed country subdivision and locality, used for containment checks.
type Region struct {
	Subdivision    string  `json:"subdivision"`
	Locality       string  `json:"locality,omitempty"`
	LocalityCenter *LatLng `json:"locality_center,omitempty"`
}

// RegistrySignal carries the two boolean signals from the tax-registry
// collaborator that feed the trust aggregation directly.
type RegistrySignal struct {
	Found  bool `json:"found"`
	Active bool `json:"active"`
}

// ClassifierResult is the payload the external classifier returns for one
// input. The engine treats Category as one more taxonomy evidence source
// and stores the whole payload verbatim in the result cache.
type ClassifierResult struct {
	Category   string          `json:"category"`
	Confidence float64         `json:"confidence"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// EvidenceBundle groups everything the caller gathered for one entity.
// The engine consumes it as a fixed snapshot: late-arriving evidence needs
// a fresh bundle and a fresh resolution.
type EvidenceBundle struct {
	EntityID string `json:"entity_id,omitempty"`

	Names      []SourceText  `json:"names,omitempty"`
	RawAddress string        `json:"raw_address,omitempty"`
	Addresses  []SourceText  `json:"addresses,omitempty"`
	Categories []SourceText  `json:"categories,omitempty"`
	Points     []SourcePoint `json:"points,omitempty"`

	Region   *Region         `json:"region,omitempty"`
	Registry *RegistrySignal `json:"registry,omitempty"`
}
