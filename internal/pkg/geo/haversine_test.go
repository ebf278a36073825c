package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZeroAtIdentity(t *testing.T) {
	assert.Equal(t, 0.0, Distance(41.0082, 28.9784, 41.0082, 28.9784))
	assert.Equal(t, 0.0, Distance(0, 0, 0, 0))
}

func TestDistanceSymmetry(t *testing.T) {
	cases := [][4]float64{
		{41.0082, 28.9784, 39.9334, 32.8597}, // Istanbul - Ankara
		{0, 0, 1, 1},
		{-33.8688, 151.2093, 51.5074, -0.1278}, // Sydney - London
	}
	for _, c := range cases {
		d1 := Distance(c[0], c[1], c[2], c[3])
		d2 := Distance(c[2], c[3], c[0], c[1])
		assert.InDelta(t, d1, d2, 1e-9)
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// One degree of latitude is roughly 111 km on the reference sphere
	d := Distance(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.5)

	// (0,0) to (1,1) is about 157 km
	d = Distance(0, 0, 1, 1)
	assert.InDelta(t, 157.2, d, 1.0)
}

func TestIsWithinRadius(t *testing.T) {
	// Coincident point is inside any radius, including zero
	assert.True(t, IsWithinRadius(0, 0, 0, 0, 0))
	assert.True(t, IsWithinRadius(0, 0, 0, 0, 10))

	// ~157 km away is outside a 10 km radius
	assert.False(t, IsWithinRadius(0, 0, 1, 1, 10))

	// but inside a 200 km radius
	assert.True(t, IsWithinRadius(0, 0, 1, 1, 200))
}

func TestRadiusZeroMatchesOnlyCoincident(t *testing.T) {
	assert.True(t, IsWithinRadius(10, 20, 10, 20, 0))
	assert.False(t, IsWithinRadius(10, 20, 10.0001, 20, 0))
}

func TestDistanceNeverNegative(t *testing.T) {
	d := Distance(-90, -180, 90, 180)
	assert.True(t, d >= 0)
	assert.False(t, math.IsNaN(d))
}
