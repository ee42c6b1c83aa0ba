package similarity

import "math"

// earthRadiusM is the fixed mean Earth radius used for all great-circle
// distances in the engine.
const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance in meters between two
// WGS84 coordinates.
func Haversine(aLat, aLng, bLat, bLng float64) float64 {
	dLat := toRadians(bLat - aLat)
	dLng := toRadians(bLng - aLng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(toRadians(aLat))*math.Cos(toRadians(bLat))*sinLng*sinLng

	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
