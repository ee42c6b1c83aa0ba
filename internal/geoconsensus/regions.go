package geoconsensus

import "github.com/twpayne/go-geom"

// bbox builds an XY bounds from lng/lat extremes. go-geom's layout is
// x=longitude, y=latitude.
func bbox(minLng, minLat, maxLng, maxLat float64) *geom.Bounds {
	return geom.NewBounds(geom.XY).Set(minLng, minLat, maxLng, maxLat)
}

// defaultRegions holds axis-aligned bounding boxes for the country
// subdivisions the engine is asked about most. Approximate rectangles are
// fine: the containment check is a sanity flag, not a consensus input.
var defaultRegions = map[string]*geom.Bounds{
	// Brazilian states.
	"SP": bbox(-53.11, -25.31, -44.16, -19.78),
	"RJ": bbox(-44.89, -23.37, -40.96, -20.76),
	"MG": bbox(-51.05, -22.92, -39.86, -14.23),
	"RS": bbox(-57.64, -33.75, -49.69, -27.08),
	"PR": bbox(-54.62, -26.72, -48.02, -22.52),
	"SC": bbox(-53.84, -29.36, -48.25, -25.96),
	"BA": bbox(-46.62, -18.35, -37.34, -8.53),
	"PE": bbox(-41.36, -9.48, -34.81, -7.26),
	"CE": bbox(-41.42, -7.86, -37.25, -2.78),
	"DF": bbox(-48.29, -16.05, -47.30, -15.50),
}

// containsPoint tests inclusive containment of a lat/lng pair in an
// axis-aligned bounds. Boundary points count as inside.
func containsPoint(b *geom.Bounds, lat, lng float64) bool {
	return lng >= b.Min(0) && lng <= b.Max(0) &&
		lat >= b.Min(1) && lat <= b.Max(1)
}
