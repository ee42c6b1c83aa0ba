// Package trust turns per-attribute validation confidences into one
// aggregate trust score that gates automatic use of a resolved record
// versus routing it to human review.
package trust

import (
	"fmt"
	"math"
)

// Category buckets the overall score.
type Category string

const (
	CategoryExcellent Category = "excellent"
	CategoryGood      Category = "good"
	CategoryMedium    Category = "medium"
	CategoryLow       Category = "low"
)

// Category thresholds over the overall score.
const (
	excellentFloor = 90
	goodFloor      = 70
	mediumFloor    = 50
)

// Component is one weighted confidence input. Contribution is
// confidence*weight/100, kept for display; the overall score re-weights
// over present components only.
type Component struct {
	Name         string  `json:"name"`
	Confidence   float64 `json:"confidence"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// NewComponent builds a component with its contribution precomputed.
func NewComponent(name string, confidence, weight float64) Component {
	return Component{
		Name:         name,
		Confidence:   confidence,
		Weight:       weight,
		Contribution: confidence * weight / 100,
	}
}

// Result is the aggregate verdict. Derived and deterministic: the same
// component list always yields the identical result.
type Result struct {
	Overall         int         `json:"overall"`
	Category        Category    `json:"category"`
	NeedsReview     bool        `json:"needs_review"`
	Components      []Component `json:"components"`
	Alerts          []string    `json:"alerts,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

// recommendations per component name, emitted alongside the low-confidence
// alert for that component.
var recommendations = map[string]string{
	"name":            "verify the trade name against storefront imagery or the registry record",
	"address":         "re-geocode the address and confirm the normalized form manually",
	"coordinates":     "request coordinates from an additional geocoding provider",
	"category":        "review the ranked category alternatives before accepting",
	"registry_found":  "confirm the tax registry number with the entity owner",
	"registry_active": "check whether the registration was suspended or closed",
}

// Aggregate computes the overall trust verdict from the components that
// are present. Pure function: no side effects, safe to re-run for audit.
//
// The overall score is a weighted average over available evidence - an
// absent component removes its weight from the denominator instead of
// dragging the score down.
func Aggregate(components []Component, watermarks Watermarks) Result {
	result := Result{Components: components}

	var weightSum, contribSum float64
	for _, c := range components {
		weightSum += c.Weight
		contribSum += c.Confidence * c.Weight
	}
	if weightSum > 0 {
		result.Overall = int(math.Round(contribSum / weightSum))
	}

	switch {
	case result.Overall >= excellentFloor:
		result.Category = CategoryExcellent
	case result.Overall >= goodFloor:
		result.Category = CategoryGood
	case result.Overall >= mediumFloor:
		result.Category = CategoryMedium
	default:
		result.Category = CategoryLow
	}

	result.NeedsReview = result.Category == CategoryMedium || result.Category == CategoryLow

	for _, c := range components {
		mark := watermarks.For(c.Name)
		if c.Confidence >= mark {
			continue
		}
		result.NeedsReview = true
		result.Alerts = append(result.Alerts,
			fmt.Sprintf("%s confidence %.0f is below its watermark %.0f", c.Name, c.Confidence, mark))
		if rec, ok := recommendations[c.Name]; ok {
			result.Recommendations = append(result.Recommendations, rec)
		}
	}

	return result
}
