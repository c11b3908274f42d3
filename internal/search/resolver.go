package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/skywatch/stargazing-api/internal/cache"
	"github.com/skywatch/stargazing-api/internal/geo"
)

const (
	// DefaultLimit caps a full search when the caller does not specify one.
	DefaultLimit = 10
	// SuggestLimit caps autocomplete suggestions.
	SuggestLimit = 8
	// minSuggestLen is the minimum query length for autocomplete.
	minSuggestLen = 2
)

// Options controls a single Resolve call.
type Options struct {
	Limit     int
	UserPoint *geo.Point
}

// Resolver turns free-text or coordinate input into a ranked list of
// candidate geographic points. Results and suggestions are cached separately
// with the same TTL.
type Resolver struct {
	geocoder Geocoder
	results  *cache.TTL[*ResolvedList]
	suggests *cache.TTL[*ResolvedList]
}

// NewResolver creates a Resolver caching results for ttl.
func NewResolver(g Geocoder, ttl time.Duration) *Resolver {
	return &Resolver{
		geocoder: g,
		results:  cache.New[*ResolvedList](ttl),
		suggests: cache.New[*ResolvedList](ttl),
	}
}

// Resolve implements the full search pipeline: coordinate short-circuit,
// synonym expansion, one gateway call per variant (partial failures swallowed
// and logged), duplicate merge by external id, ranking, fuzzy re-ranking,
// truncation.
func (r *Resolver) Resolve(ctx context.Context, query string, opts Options) (*ResolvedList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	// Coordinates short-circuit the pipeline with a single synthetic result.
	if pt, ok := geo.ParseCoordinates(query); ok {
		return coordinateResult(pt), nil
	}

	key := cacheKey(query, limit, opts.UserPoint)
	if cached, ok := r.results.Get(key); ok {
		return cached, nil
	}

	list, err := r.search(ctx, query, limit, opts.UserPoint)
	if err != nil {
		return nil, err
	}

	r.results.Set(key, list)
	return list, nil
}

// Suggest is the lighter-weight autocomplete variant: minimum two-character
// query, capped at eight results. Debouncing is the caller's responsibility.
func (r *Resolver) Suggest(ctx context.Context, query string) (*ResolvedList, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSuggestLen {
		return nil, ErrQueryTooShort
	}

	if pt, ok := geo.ParseCoordinates(query); ok {
		return coordinateResult(pt), nil
	}

	key := cacheKey(query, SuggestLimit, nil)
	if cached, ok := r.suggests.Get(key); ok {
		return cached, nil
	}

	list, err := r.search(ctx, query, SuggestLimit, nil)
	if err != nil {
		return nil, err
	}

	r.suggests.Set(key, list)
	return list, nil
}

func (r *Resolver) search(ctx context.Context, query string, limit int, user *geo.Point) (*ResolvedList, error) {
	variants := ExpandSynonyms(query)

	var (
		merged    []Candidate
		seen      = make(map[string]bool)
		succeeded int
		lastErr   error
	)

	for _, variant := range variants {
		candidates, err := r.geocoder.Search(ctx, variant, user, limit)
		if err != nil {
			// Individual variant failures are not fatal as long as at
			// least one variant succeeds.
			log.Printf("resolver: geocoding failed for variant %q: %v", variant, err)
			lastErr = err
			continue
		}
		succeeded++

		for _, c := range candidates {
			if seen[c.ExternalID] {
				continue
			}
			seen[c.ExternalID] = true
			merged = append(merged, c)
		}
	}

	if len(merged) == 0 {
		if succeeded == 0 && lastErr != nil {
			return nil, &GatewayError{Query: query, Err: lastErr}
		}
		return nil, &NotFoundError{Query: query, Variants: variants}
	}

	ranked := FuzzyRerank(Rank(merged, query, user), query)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &ResolvedList{Query: query, Results: ranked}, nil
}

// coordinateResult wraps a parsed coordinate pair as a single synthetic
// result; no ranking is involved.
func coordinateResult(pt geo.Point) *ResolvedList {
	name := fmt.Sprintf("%.4f, %.4f", pt.Lat, pt.Lon)
	return &ResolvedList{
		Query: name,
		Results: []RankedResult{{
			Candidate: Candidate{
				ExternalID:  "coord:" + pt.Key(4),
				DisplayName: name,
				Point:       pt,
				PlaceType:   "coordinate",
				PlaceClass:  "coordinate",
				Importance:  1,
			},
			RankingScore: 1,
			Rank:         1,
		}},
	}
}

func cacheKey(query string, limit int, user *geo.Point) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	userKey := "-"
	if user != nil {
		userKey = user.Key(2)
	}
	return fmt.Sprintf("%s|%d|%s", normalized, limit, userKey)
}
