package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKmIdentity(t *testing.T) {
	points := [][2]float64{
		{9.0147, 38.7478},
		{0, 0},
		{-33.8688, 151.2093},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceKm(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceKmSymmetryAndSign(t *testing.T) {
	// Meskel Square to Bole Airport area.
	d1 := DistanceKm(9.0107, 38.7613, 8.9806, 38.7992)
	d2 := DistanceKm(8.9806, 38.7992, 9.0107, 38.7613)
	assert.InDelta(t, d1, d2, 1e-9)
	assert.Greater(t, d1, 0.0)
	// Roughly 5.3 km apart; the formula should land in that ballpark.
	assert.InDelta(t, 5.3, d1, 0.5)
}

func TestWithinKm(t *testing.T) {
	assert.True(t, WithinKm(9.03, 38.74, 9.03, 38.75, 2))
	assert.False(t, WithinKm(9.03, 38.74, 8.55, 39.27, 10))
}

func TestNearestStationsOrdering(t *testing.T) {
	got := NearestStations(9.0147, 38.7478, "", 0)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
	// The caller is standing at Tikur Anbessa, so it should come first.
	assert.Equal(t, "Tikur Anbessa Specialized Hospital", got[0].Name)
}

func TestNearestStationsTypeFilterAndLimit(t *testing.T) {
	got := NearestStations(9.0, 38.75, StationPolice, 2)
	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, StationPolice, s.Type)
	}
}
