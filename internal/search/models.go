package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skywatch/stargazing-api/internal/geo"
)

// Candidate is a raw geocoding result, created per query and discarded after
// ranking.
type Candidate struct {
	ExternalID  string    `json:"externalId"`
	DisplayName string    `json:"displayName"`
	Point       geo.Point `json:"point"`
	PlaceType   string    `json:"placeType"`
	PlaceClass  string    `json:"placeClass"`
	Importance  float64   `json:"importance"` // [0,1]
}

// RankingReason records one scoring factor and its contribution so the caller
// can explain why a result ranked where it did.
type RankingReason struct {
	Factor       string  `json:"factor"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// RankedResult is a candidate with its ranking breakdown attached.
type RankedResult struct {
	Candidate
	RankingScore   float64         `json:"rankingScore"`
	RankingReasons []RankingReason `json:"rankingReasons"`
	FuzzyScore     int             `json:"fuzzyScore"`
	FuzzyHighlight []int           `json:"fuzzyHighlight,omitempty"`
	Rank           int             `json:"rank"`
}

// ResolvedList is the resolver's answer for one query.
type ResolvedList struct {
	Query   string         `json:"query"`
	Results []RankedResult `json:"results"`
}

// Geocoder is the external place-name lookup the resolver fans out to, once
// per synonym variant. Implementations must be duplicate-safe: the resolver
// merges results by ExternalID.
type Geocoder interface {
	Search(ctx context.Context, text string, near *geo.Point, limit int) ([]Candidate, error)
}

// ReverseGeocoder names a coordinate, e.g. for a map click.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, pt geo.Point) (string, error)
}

// ErrEmptyQuery is returned for blank input.
var ErrEmptyQuery = errors.New("query must not be empty")

// ErrQueryTooShort is returned by Suggest for queries under two characters.
var ErrQueryTooShort = errors.New("query must be at least 2 characters")

// NotFoundError reports that no variant produced any candidate. It carries
// the attempted variants so the caller can suggest alternatives.
type NotFoundError struct {
	Query    string
	Variants []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no results for %q (tried: %s)", e.Query, strings.Join(e.Variants, ", "))
}

// GatewayError reports that every geocoding lookup failed, so there is no
// partial result to fall back on.
type GatewayError struct {
	Query string
	Err   error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("geocoding unavailable for %q: %v", e.Query, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
