package domain

import "math"

// EarthRadiusMiles is the mean Earth radius in statute miles.
const EarthRadiusMiles = 3958.756

const degToRad = math.Pi / 180

// GreatCircle returns the surface distance in miles between two points using
// the spherical law of cosines. The acos argument is clamped to [-1, 1] so
// nearly identical points yield a tiny distance instead of NaN.
func GreatCircle(a, b Geo) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLon := (a.Lon - b.Lon) * degToRad

	x := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return EarthRadiusMiles * math.Acos(x)
}
