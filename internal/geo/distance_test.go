package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineIdentity(t *testing.T) {
	points := []struct{ lat, lon float64 }{
		{0, 0},
		{55.7558, 37.6173},
		{-33.8688, 151.2093},
		{90, 180},
	}

	for _, p := range points {
		assert.Zero(t, Haversine(p.lat, p.lon, p.lat, p.lon))
	}
}

func TestHaversineSymmetry(t *testing.T) {
	ab := Haversine(55.7558, 37.6173, 59.9343, 30.3351)
	ba := Haversine(59.9343, 30.3351, 55.7558, 37.6173)
	assert.Equal(t, ab, ba)
}

func TestHaversineKnownDistances(t *testing.T) {
	// Moscow to Saint Petersburg, ~633 km.
	assert.InDelta(t, 633.0, Haversine(55.7558, 37.6173, 59.9343, 30.3351), 1.0)

	// Lagos to Abuja, ~526 km.
	assert.InDelta(t, 525.9, Haversine(6.5244, 3.3792, 9.0765, 7.3986), 1.0)

	// Two points ~25m apart.
	assert.InDelta(t, 0.0255, Haversine(55.7558, 37.6173, 55.7560, 37.6175), 0.001)
}
