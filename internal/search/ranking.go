package search

import (
	"sort"
	"strings"

	"github.com/skywatch/stargazing-api/internal/geo"
)

// Ranking factor weights. Proximity is only applied when the caller supplies
// a reference point; it is omitted entirely otherwise, not zero-filled.
const (
	weightSimilarity = 0.4
	weightImportance = 0.3
	weightProximity  = 0.2
	prefixBonus      = 0.10

	// Distance at which the proximity factor bottoms out.
	proximityRangeKm = 10000.0
)

// Rank scores each candidate against the original query and returns the list
// sorted by descending score. Every contributing factor is recorded in
// RankingReasons.
func Rank(candidates []Candidate, query string, user *geo.Point) []RankedResult {
	results := make([]RankedResult, 0, len(candidates))
	queryLower := strings.ToLower(strings.TrimSpace(query))

	for _, c := range candidates {
		r := RankedResult{Candidate: c}

		sim := Similarity(query, c.DisplayName)
		r.addFactor("similarity", sim, weightSimilarity*sim)

		r.addFactor("importance", c.Importance, weightImportance*c.Importance)

		if user != nil {
			dist := geo.DistanceKm(*user, c.Point)
			prox := 1 - dist/proximityRangeKm
			if prox < 0 {
				prox = 0
			}
			r.addFactor("proximity", prox, weightProximity*prox)
		}

		if queryLower != "" && strings.HasPrefix(strings.ToLower(c.DisplayName), queryLower) {
			r.addFactor("prefixMatch", 1, prefixBonus)
		}

		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RankingScore > results[j].RankingScore
	})

	return results
}

func (r *RankedResult) addFactor(name string, value, contribution float64) {
	r.RankingReasons = append(r.RankingReasons, RankingReason{
		Factor:       name,
		Value:        value,
		Contribution: contribution,
	})
	r.RankingScore += contribution
}
