package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/stargazing-api/internal/geo"
)

// fakeGeocoder maps query variants to canned candidates and records calls.
type fakeGeocoder struct {
	byVariant map[string][]Candidate
	failing   map[string]error
	calls     []string
}

func (f *fakeGeocoder) Search(_ context.Context, text string, _ *geo.Point, _ int) ([]Candidate, error) {
	f.calls = append(f.calls, text)
	if err, ok := f.failing[text]; ok {
		return nil, err
	}
	return f.byVariant[text], nil
}

func TestResolveCoordinateShortCircuit(t *testing.T) {
	gc := &fakeGeocoder{}
	r := NewResolver(gc, time.Minute)

	list, err := r.Resolve(context.Background(), "40.7128, -74.0060", Options{})
	require.NoError(t, err)
	require.Len(t, list.Results, 1)

	res := list.Results[0]
	assert.Equal(t, 40.7128, res.Point.Lat)
	assert.Equal(t, -74.0060, res.Point.Lon)
	assert.Equal(t, "coordinate", res.PlaceType)
	assert.Equal(t, 1, res.Rank)
	assert.Empty(t, gc.calls, "geocoder must not be called for coordinates")
}

func TestResolveEmptyQuery(t *testing.T) {
	r := NewResolver(&fakeGeocoder{}, time.Minute)
	_, err := r.Resolve(context.Background(), "   ", Options{})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestResolveMergesVariantsByExternalID(t *testing.T) {
	shared := Candidate{ExternalID: "42", DisplayName: "Peak View Park", Importance: 0.5}
	gc := &fakeGeocoder{byVariant: map[string][]Candidate{
		"mountain view": {shared, {ExternalID: "1", DisplayName: "Mountain View, CA", Importance: 0.9}},
		"peak view":     {shared},
		"range view":    {},
	}}
	r := NewResolver(gc, time.Minute)

	list, err := r.Resolve(context.Background(), "mountain view", Options{})
	require.NoError(t, err)

	ids := map[string]int{}
	for _, res := range list.Results {
		ids[res.ExternalID]++
	}
	assert.Equal(t, 1, ids["42"], "duplicate external ids must be merged")
	assert.Equal(t, 1, ids["1"])
}

func TestResolvePartialGatewayFailureSwallowed(t *testing.T) {
	gc := &fakeGeocoder{
		byVariant: map[string][]Candidate{
			"mountain view": {{ExternalID: "1", DisplayName: "Mountain View, CA", Importance: 0.9}},
		},
		failing: map[string]error{
			"peak view":  errors.New("boom"),
			"range view": errors.New("boom"),
		},
	}
	r := NewResolver(gc, time.Minute)

	list, err := r.Resolve(context.Background(), "mountain view", Options{})
	require.NoError(t, err, "individual variant failures must not be fatal")
	require.Len(t, list.Results, 1)
}

func TestResolveNotFoundCarriesVariants(t *testing.T) {
	gc := &fakeGeocoder{byVariant: map[string][]Candidate{}}
	r := NewResolver(gc, time.Minute)

	_, err := r.Resolve(context.Background(), "mountain hideaway", Options{})

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Variants, "mountain hideaway")
	assert.Contains(t, nf.Variants, "peak hideaway")
}

func TestResolveAllGatewaysFailed(t *testing.T) {
	boom := errors.New("boom")
	gc := &fakeGeocoder{failing: map[string]error{
		"reno": boom,
	}}
	r := NewResolver(gc, time.Minute)

	_, err := r.Resolve(context.Background(), "reno", Options{})

	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	assert.ErrorIs(t, ge, boom)
}

func TestResolveTruncatesToLimit(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 15; i++ {
		candidates = append(candidates, Candidate{
			ExternalID:  string(rune('a' + i)),
			DisplayName: "Reno",
			Importance:  float64(i) / 15,
		})
	}
	gc := &fakeGeocoder{byVariant: map[string][]Candidate{"reno": candidates}}
	r := NewResolver(gc, time.Minute)

	list, err := r.Resolve(context.Background(), "reno", Options{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, list.Results, 3)
}

func TestResolveCachesResults(t *testing.T) {
	gc := &fakeGeocoder{byVariant: map[string][]Candidate{
		"reno": {{ExternalID: "1", DisplayName: "Reno, Nevada", Importance: 0.8}},
	}}
	r := NewResolver(gc, time.Minute)

	_, err := r.Resolve(context.Background(), "reno", Options{})
	require.NoError(t, err)
	first := len(gc.calls)

	_, err = r.Resolve(context.Background(), "Reno", Options{})
	require.NoError(t, err)
	assert.Equal(t, first, len(gc.calls), "second resolve must be served from cache")
}

func TestSuggestMinimumLength(t *testing.T) {
	r := NewResolver(&fakeGeocoder{}, time.Minute)
	_, err := r.Suggest(context.Background(), "a")
	assert.ErrorIs(t, err, ErrQueryTooShort)
}

func TestSuggestCappedAtEight(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 12; i++ {
		candidates = append(candidates, Candidate{
			ExternalID:  string(rune('a' + i)),
			DisplayName: "Reno",
			Importance:  float64(i) / 12,
		})
	}
	gc := &fakeGeocoder{byVariant: map[string][]Candidate{"reno": candidates}}
	r := NewResolver(gc, time.Minute)

	list, err := r.Suggest(context.Background(), "reno")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(list.Results), SuggestLimit)
}

func TestResolveSortingInvariant(t *testing.T) {
	gc := &fakeGeocoder{byVariant: map[string][]Candidate{
		"springfield": {
			{ExternalID: "1", DisplayName: "Springfield, Illinois", Importance: 0.9},
			{ExternalID: "2", DisplayName: "Springfield, Missouri", Importance: 0.85},
			{ExternalID: "3", DisplayName: "West Springfield", Importance: 0.4},
			{ExternalID: "4", DisplayName: "Springfield Lake", Importance: 0.42},
		},
	}}
	r := NewResolver(gc, time.Minute)

	list, err := r.Resolve(context.Background(), "springfield", Options{})
	require.NoError(t, err)

	for i := 0; i < len(list.Results)-1; i++ {
		a, b := list.Results[i], list.Results[i+1]
		if a.RankingScore-b.RankingScore > rankEquivalenceBand {
			continue
		}
		if b.RankingScore-a.RankingScore > rankEquivalenceBand {
			t.Fatalf("ranking scores out of order at %d: %f < %f", i, a.RankingScore, b.RankingScore)
		}
		assert.GreaterOrEqual(t, a.FuzzyScore, b.FuzzyScore)
	}
}
