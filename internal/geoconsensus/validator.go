// Package geoconsensus reconciles coordinate pairs from multiple
// geocoding providers into a single resolved point with a confidence
// band based on pairwise great-circle spread.
package geoconsensus

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/consensus-cli/internal/model"
	"github.com/sells-group/consensus-cli/internal/similarity"
)

// Distance bands for pairwise provider spread (meters).
// Rules:
//   - max spread < 50 m: providers agree, resolve to the mean, confidence 100
//   - 50-200 m inclusive: minor drift, resolve to primary, confidence 75
//   - > 200 m: providers diverge, resolve to primary, confidence 50
const (
	tightBandM = 50.0
	looseBandM = 200.0
)

// localityRadiusM is the flag distance for the resolved point being
// suspiciously far from the claimed locality's known center.
const localityRadiusM = 50000.0

// Confidence values per evidence situation.
const (
	confAgreement   = 100
	confMinorDrift  = 75
	confDivergent   = 50
	confSinglePoint = 70
)

// Validator performs coordinate consensus. The zero value is not usable;
// construct with NewValidator.
type Validator struct {
	primary model.SourceID
	regions map[string]*geom.Bounds
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegions replaces the built-in subdivision bounding-box table.
func WithRegions(regions map[string]*geom.Bounds) Option {
	return func(v *Validator) { v.regions = regions }
}

// NewValidator creates a coordinate consensus validator. primary names
// the provider whose point wins when sources drift apart.
func NewValidator(primary model.SourceID, opts ...Option) *Validator {
	v := &Validator{
		primary: primary,
		regions: defaultRegions,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate reconciles the given points. Region metadata, when present,
// only sets the WithinRegion/WithinLocality flags; it never changes the
// consensus confidence.
func (v *Validator) Validate(points []model.SourcePoint, region *model.Region) (*model.GeoDecision, error) {
	for _, p := range points {
		if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			return nil, fmt.Errorf("%w: %s returned (%f, %f)", model.ErrInvalidCoordinate, p.Source, p.Lat, p.Lng)
		}
	}

	if len(points) == 0 {
		return nil, model.ErrNoEvidence
	}

	var decision *model.GeoDecision
	if len(points) == 1 {
		decision = &model.GeoDecision{
			Lat:        points[0].Lat,
			Lng:        points[0].Lng,
			Confidence: confSinglePoint,
			Source:     points[0].Source,
			Rationale:  "single geocoder, no cross-check possible",
		}
	} else {
		decision = v.consensus(points)
	}

	if region != nil {
		v.checkRegion(decision, region)
	}
	return decision, nil
}

// consensus computes the pairwise max spread and applies the distance
// bands.
func (v *Validator) consensus(points []model.SourcePoint) *model.GeoDecision {
	maxDist := 0.0
	var pairwise []string
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := similarity.Haversine(points[i].Lat, points[i].Lng, points[j].Lat, points[j].Lng)
			if d > maxDist {
				maxDist = d
			}
			pairwise = append(pairwise, fmt.Sprintf("%s and %s are %.0f m apart", points[i].Source, points[j].Source, d))
		}
	}

	if maxDist < tightBandM {
		lat, lng := meanPoint(points)
		return &model.GeoDecision{
			Lat:        lat,
			Lng:        lng,
			Confidence: confAgreement,
			Source:     model.SourceConsensus,
			Rationale:  fmt.Sprintf("%d geocoders agree within %.0f m", len(points), maxDist),
		}
	}

	p := v.primaryPoint(points)
	if maxDist <= looseBandM {
		return &model.GeoDecision{
			Lat:        p.Lat,
			Lng:        p.Lng,
			Confidence: confMinorDrift,
			Source:     p.Source,
			Rationale:  fmt.Sprintf("geocoders drift up to %.0f m, using %s", maxDist, p.Source),
		}
	}

	zap.L().Debug("geoconsensus: divergent providers",
		zap.Float64("max_spread_m", maxDist),
		zap.Int("points", len(points)),
	)
	return &model.GeoDecision{
		Lat:         p.Lat,
		Lng:         p.Lng,
		Confidence:  confDivergent,
		Source:      p.Source,
		Rationale:   fmt.Sprintf("geocoders diverge by %.0f m, using %s", maxDist, p.Source),
		Divergences: pairwise,
	}
}

// primaryPoint returns the designated primary source's point, or the
// first point when the primary did not report.
func (v *Validator) primaryPoint(points []model.SourcePoint) model.SourcePoint {
	for _, p := range points {
		if p.Source == v.primary {
			return p
		}
	}
	return points[0]
}

// checkRegion sets the advisory containment flags on the decision.
func (v *Validator) checkRegion(d *model.GeoDecision, region *model.Region) {
	if region.Subdivision != "" {
		if bounds, ok := v.regions[region.Subdivision]; ok {
			within := containsPoint(bounds, d.Lat, d.Lng)
			d.WithinRegion = &within
			if !within {
				d.Divergences = append(d.Divergences,
					fmt.Sprintf("resolved point is outside subdivision %s", region.Subdivision))
			}
		}
	}

	if region.LocalityCenter != nil {
		dist := similarity.Haversine(d.Lat, d.Lng, region.LocalityCenter.Lat, region.LocalityCenter.Lng)
		within := dist <= localityRadiusM
		d.WithinLocality = &within
		if !within {
			d.Divergences = append(d.Divergences,
				fmt.Sprintf("resolved point is %.0f km from %s center", dist/1000, region.Locality))
		}
	}
}

// meanPoint returns the arithmetic mean of the given coordinates.
func meanPoint(points []model.SourcePoint) (lat, lng float64) {
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(points))
	return lat / n, lng / n
}
