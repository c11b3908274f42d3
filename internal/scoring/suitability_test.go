package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/geo"
)

func bundleWith(bortle, cloud int, aqi *float64) *conditions.Bundle {
	pt := geo.Point{Lat: 36.0, Lon: -112.0}
	return &conditions.Bundle{
		Point: pt,
		Air:   &conditions.AirQuality{Point: pt, AQI: aqi, FetchedAt: time.Unix(0, 0)},
		Light: &conditions.LightPollution{Point: pt, BortleClass: bortle, FetchedAt: time.Unix(0, 0)},
		Sky:   &conditions.SkyView{Point: pt, CloudCover: cloud, FetchedAt: time.Unix(0, 0)},
	}
}

func aqiOf(v float64) *float64 { return &v }

func TestSuitabilityPerfectScenario(t *testing.T) {
	// light=10 (bortle 1... gives 10), sky=10 (cloud 1), air=10 (aqi<=50)
	// Weighted sum must be exactly 10 and the rating Perfect.
	b := bundleWith(1, 1, aqiOf(20))
	// Bortle 1 normalizes to exactly 10.
	score, err := Suitability(b)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, score.Sub.Light, 1e-9)
	assert.Equal(t, 10.0, score.Sub.Sky)
	assert.Equal(t, 10.0, score.Sub.Air)
	assert.InDelta(t, 10.0, score.Total, 1e-9)
	assert.Equal(t, RatingPerfect, score.Rating)
}

func TestSuitabilityBortleBoundaries(t *testing.T) {
	best, err := Suitability(bundleWith(1, 4, aqiOf(40)))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, best.Sub.Light, 1e-9)

	worst, err := Suitability(bundleWith(9, 4, aqiOf(40)))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, worst.Sub.Light, 1e-9)
}

func TestSuitabilityAirThresholds(t *testing.T) {
	cases := []struct {
		aqi  *float64
		want float64
	}{
		{aqiOf(50), 10},
		{aqiOf(51), 8},
		{aqiOf(100), 8},
		{aqiOf(150), 5},
		{aqiOf(200), 3},
		{aqiOf(350), 1},
		{nil, 10}, // optimistic default for a missing index
	}
	for _, c := range cases {
		score, err := Suitability(bundleWith(4, 4, c.aqi))
		require.NoError(t, err)
		assert.Equal(t, c.want, score.Sub.Air, "aqi=%v", c.aqi)
	}
}

func TestSuitabilitySkyRatingMapping(t *testing.T) {
	cases := []struct {
		cloud int
		want  float64
	}{
		{1, 10},  // Excellent
		{2, 8.5}, // Very Good
		{3, 7},   // Good
		{5, 5},   // Fair
		{7, 3},   // Poor
		{9, 1},   // Very Poor
		{0, 5},   // Unknown rating defaults to 5
	}
	for _, c := range cases {
		score, err := Suitability(bundleWith(4, c.cloud, aqiOf(40)))
		require.NoError(t, err)
		assert.Equal(t, c.want, score.Sub.Sky, "cloud=%d", c.cloud)
	}
}

func TestSuitabilityIdempotent(t *testing.T) {
	b := bundleWith(3, 2, aqiOf(75))

	first, err := Suitability(b)
	require.NoError(t, err)
	second, err := Suitability(b)
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Sub, second.Sub)
	assert.Equal(t, first.Rating, second.Rating)
}

func TestSuitabilityIncompleteBundle(t *testing.T) {
	b := bundleWith(3, 2, aqiOf(75))
	b.Sky = nil

	_, err := Suitability(b)
	assert.ErrorIs(t, err, ErrIncompleteBundle)
}

func TestRatingLadder(t *testing.T) {
	cases := []struct {
		total float64
		want  Rating
	}{
		{9.5, RatingPerfect},
		{9.0, RatingPerfect},
		{8.0, RatingExcellent},
		{6.5, RatingVeryGood},
		{5.0, RatingGood},
		{3.5, RatingFair},
		{2.0, RatingPoor},
		{1.0, RatingVeryPoor},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ratingFor(c.total), "total=%f", c.total)
	}
}

func TestCompactPolicyDiffersFromUltimate(t *testing.T) {
	b := bundleWith(4, 3, aqiOf(120))

	ultimate, err := Suitability(b)
	require.NoError(t, err)
	compact, err := CompactSuitability(b)
	require.NoError(t, err)

	assert.Equal(t, "ultimate", ultimate.Policy)
	assert.Equal(t, "compact", compact.Policy)
	// Different light multipliers: 10/9 per class vs the 1.11 literal.
	assert.NotEqual(t, ultimate.Sub.Light, compact.Sub.Light)
	assert.NotEqual(t, ultimate.Total, compact.Total)
}
