package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/skywatch/stargazing-api/internal/geo"
	"github.com/skywatch/stargazing-api/internal/search"
)

// GoogleReverseGeocoder names coordinates through the Google geocoding API.
// It is preferred for map clicks when an API key is configured; the caller
// falls back to Nominatim reverse lookup otherwise.
type GoogleReverseGeocoder struct {
	fallback search.ReverseGeocoder
}

func NewGoogleReverseGeocoder(apiKey string, fallback search.ReverseGeocoder) *GoogleReverseGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleReverseGeocoder{fallback: fallback}
}

func (g *GoogleReverseGeocoder) Reverse(ctx context.Context, pt geo.Point) (string, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  pt.Lat,
		Longitude: pt.Lon,
	})
	if err != nil || len(addresses) == 0 {
		if g.fallback != nil {
			return g.fallback.Reverse(ctx, pt)
		}
		if err == nil {
			err = fmt.Errorf("no reverse geocode result for %s", pt.Key(4))
		}
		return "", err
	}

	addr := addresses[0]
	if addr.FormattedAddress != "" {
		return addr.FormattedAddress, nil
	}
	return addr.FormatAddress(), nil
}
