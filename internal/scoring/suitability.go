// Package scoring turns condition snapshots into suitability scores and
// stargazing windows. Everything here is pure computation over snapshots
// that have already been fetched.
package scoring

import (
	"errors"

	"github.com/skywatch/stargazing-api/internal/conditions"
)

// ErrIncompleteBundle reports that scoring was called before all three
// condition snapshots were available. This fails the single scoring call,
// never the process.
var ErrIncompleteBundle = errors.New("scoring requires air, light and sky snapshots")

// Rating is a qualitative label for a 0-10 suitability total.
type Rating string

const (
	RatingPerfect   Rating = "Perfect"
	RatingExcellent Rating = "Excellent"
	RatingVeryGood  Rating = "Very Good"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
	RatingVeryPoor  Rating = "Very Poor"
)

// SubScores holds the three normalized 0-10 components.
type SubScores struct {
	Light float64 `json:"light"`
	Sky   float64 `json:"sky"`
	Air   float64 `json:"air"`
}

// Score is the derived, ephemeral suitability result. It is recomputed
// whenever a contributing snapshot changes and never persisted.
type Score struct {
	Total  float64            `json:"total"`
	Sub    SubScores          `json:"subScores"`
	Rating Rating             `json:"rating"`
	Policy string             `json:"policy"`
	Bundle *conditions.Bundle `json:"conditions"`
}

// Weights of the primary ("ultimate") policy.
const (
	weightLight = 0.40
	weightSky   = 0.35
	weightAir   = 0.25
)

// Weights and light multiplier of the compact policy. This is deliberately a
// separate scoring policy from the ultimate one, with its own light-score
// multiplier; the two are not to be reconciled.
const (
	compactWeightLight = 0.50
	compactWeightSky   = 0.30
	compactWeightAir   = 0.20
	compactLightFactor = 1.11
)

// skyRatingScores maps the qualitative sky rating to a 0-10 score.
// Unmapped ratings default to 5.
var skyRatingScores = map[string]float64{
	"Excellent": 10,
	"Very Good": 8.5,
	"Good":      7,
	"Fair":      5,
	"Poor":      3,
	"Very Poor": 1,
}

// Suitability computes the weighted suitability score under the ultimate
// policy. Pure and idempotent: identical snapshots always yield identical
// output.
func Suitability(b *conditions.Bundle) (*Score, error) {
	if !b.Complete() {
		return nil, ErrIncompleteBundle
	}

	sub := SubScores{
		Light: normalizeLight(b.Light.BortleClass),
		Sky:   normalizeSky(b.Sky.Rating()),
		Air:   normalizeAir(b.Air.AQI),
	}
	total := weightLight*sub.Light + weightSky*sub.Sky + weightAir*sub.Air

	return &Score{
		Total:  total,
		Sub:    sub,
		Rating: ratingFor(total),
		Policy: "ultimate",
		Bundle: b,
	}, nil
}

// CompactSuitability computes the alternate compact policy score.
func CompactSuitability(b *conditions.Bundle) (*Score, error) {
	if !b.Complete() {
		return nil, ErrIncompleteBundle
	}

	sub := SubScores{
		Light: clampScore(float64(10-b.Light.BortleClass) * compactLightFactor),
		Sky:   normalizeSky(b.Sky.Rating()),
		Air:   normalizeAir(b.Air.AQI),
	}
	total := compactWeightLight*sub.Light + compactWeightSky*sub.Sky + compactWeightAir*sub.Air

	return &Score{
		Total:  total,
		Sub:    sub,
		Rating: ratingFor(total),
		Policy: "compact",
		Bundle: b,
	}, nil
}

// normalizeLight maps Bortle class 1..9 onto 0..10, class 1 scoring highest.
func normalizeLight(bortle int) float64 {
	if bortle < 1 {
		bortle = 1
	}
	if bortle > 9 {
		bortle = 9
	}
	return float64(10-bortle) * 10.0 / 9.0
}

func normalizeSky(rating string) float64 {
	if s, ok := skyRatingScores[rating]; ok {
		return s
	}
	return 5
}

// normalizeAir maps AQI thresholds onto 0..10. A missing AQI scores the
// optimistic 10: absence of data is treated as absence of a problem. Policy
// choice, not a bug.
func normalizeAir(aqi *float64) float64 {
	if aqi == nil {
		return 10
	}
	switch {
	case *aqi <= 50:
		return 10
	case *aqi <= 100:
		return 8
	case *aqi <= 150:
		return 5
	case *aqi <= 200:
		return 3
	default:
		return 1
	}
}

func ratingFor(total float64) Rating {
	switch {
	case total >= 9:
		return RatingPerfect
	case total >= 7.5:
		return RatingExcellent
	case total >= 6:
		return RatingVeryGood
	case total >= 4.5:
		return RatingGood
	case total >= 3:
		return RatingFair
	case total >= 1.5:
		return RatingPoor
	default:
		return RatingVeryPoor
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
