package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircle_KnownCities(t *testing.T) {
	chicago := Geo{Lat: 41.85, Lon: -87.65}

	d := GreatCircle(dallas, chicago)
	assert.InDelta(t, 802.42, d, 1.0)
	assert.GreaterOrEqual(t, d, 801.5)
	assert.LessOrEqual(t, d, 805.0)

	assert.InDelta(t, 180.93, GreatCircle(texasCampus, dallas), 1.0)
	assert.InDelta(t, 1.12, GreatCircle(texasCampus, austin), 0.05)
}

func TestGreatCircle_Symmetric(t *testing.T) {
	points := []Geo{austin, dallas, houston, losAngeles, texasCampus, uscCampus, {Lat: -33.87, Lon: 151.21}, {Lat: 90, Lon: 0}}
	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, GreatCircle(a, b), GreatCircle(b, a), 1e-9, "%v <-> %v", a, b)
		}
	}
}

func TestGreatCircle_SamePointIsZero(t *testing.T) {
	for _, p := range []Geo{austin, texasCampus, {Lat: 0, Lon: 0}, {Lat: -89.9, Lon: 179.9}} {
		assert.Zero(t, GreatCircle(p, p))
	}
}

func TestGreatCircle_NearlyIdenticalPointsClamped(t *testing.T) {
	a := Geo{Lat: 30.285, Lon: -97.733}
	for _, eps := range []float64{1e-9, 5e-10, 1e-12, 1e-15} {
		b := Geo{Lat: a.Lat + eps, Lon: a.Lon - eps}
		d := GreatCircle(a, b)
		assert.False(t, math.IsNaN(d), "eps=%g", eps)
		assert.False(t, math.IsInf(d, 0), "eps=%g", eps)
		assert.GreaterOrEqual(t, d, 0.0)
		assert.Less(t, d, 0.01)
	}
}

func TestGreatCircle_Antipodal(t *testing.T) {
	d := GreatCircle(Geo{Lat: 0, Lon: 0}, Geo{Lat: 0, Lon: 180})
	assert.InDelta(t, math.Pi*EarthRadiusMiles, d, 1e-6)
}
