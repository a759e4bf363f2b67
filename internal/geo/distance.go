// Package geo provides the single distance implementation shared by
// listing browse, map labels and the emergency-station locator, so all
// three surfaces agree on what "2.3 km away" means.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometres between
// two coordinate pairs using the haversine formula.  It is defined for
// all finite inputs; NaN inputs propagate NaN.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// WithinKm reports whether the two points lie within radiusKm of each
// other.
func WithinKm(lat1, lng1, lat2, lng2, radiusKm float64) bool {
	return DistanceKm(lat1, lng1, lat2, lng2) <= radiusKm
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
