package search

import (
	"math"
	"sort"

	"github.com/sahilm/fuzzy"
)

// rankEquivalenceBand is the primary-score difference below which two results
// are considered tied and the fuzzy score decides their order. This keeps
// fuzzy noise from overriding clearly-better primary matches.
const rankEquivalenceBand = 0.05

// unmatchedFuzzyScore sorts candidates the query does not fuzzy-match at all
// below every matched candidate, including ones with negative match scores.
const unmatchedFuzzyScore = math.MinInt32

// FuzzyRerank attaches a subsequence match score and highlight span to each
// result, then re-sorts with the two-tier comparator: primary ranking order
// wins outside the equivalence band, fuzzy score wins inside it. Rank numbers
// are assigned here.
func FuzzyRerank(results []RankedResult, query string) []RankedResult {
	for i := range results {
		matches := fuzzy.Find(query, []string{results[i].DisplayName})
		if len(matches) > 0 {
			results[i].FuzzyScore = matches[0].Score
			results[i].FuzzyHighlight = matches[0].MatchedIndexes
		} else {
			results[i].FuzzyScore = unmatchedFuzzyScore
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if math.Abs(a.RankingScore-b.RankingScore) > rankEquivalenceBand {
			return a.RankingScore > b.RankingScore
		}
		return a.FuzzyScore > b.FuzzyScore
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}
