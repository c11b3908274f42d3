package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/skywatch/stargazing-api/internal/gateway"
	"github.com/skywatch/stargazing-api/internal/geo"
	"github.com/skywatch/stargazing-api/internal/search"
)

// viewboxRadiusMeters biases Nominatim lookups toward the user's point when
// one is supplied. Results outside the box are still returned.
const viewboxRadiusMeters = 200_000

// NominatimGeocoder implements search.Geocoder against the Nominatim
// place-name lookup API.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	httpCfg   gateway.HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

func NewNominatimGeocoder(client *http.Client, baseURL, userAgent string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpCfg: gateway.HTTPClientConfig{
			Client:  client,
			Backoff: gateway.DefaultBackoff,
		},
		circuit: gateway.NewBreaker("nominatim"),
	}
}

type nominatimPlace struct {
	PlaceID     int64   `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

// Search resolves free text into place candidates. Results carry Nominatim's
// importance value, place class, and type so the ranking engine can use them.
func (g *NominatimGeocoder) Search(ctx context.Context, text string, near *geo.Point, limit int) ([]search.Candidate, error) {
	if limit <= 0 {
		limit = 10
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", text)
		values.Set("format", "jsonv2")
		values.Set("limit", strconv.Itoa(limit))
		if near != nil {
			b := geo.BoundAround(*near, viewboxRadiusMeters)
			values.Set("viewbox", fmt.Sprintf("%f,%f,%f,%f",
				b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()))
		}

		u := fmt.Sprintf("%s/search?%s", g.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", g.userAgent)
		return req, nil
	}

	resp, err := gateway.DoRequestWithResilience(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, err
	}

	candidates := make([]search.Candidate, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			continue
		}
		pt, err := geo.NewPoint(lat, lon)
		if err != nil {
			continue
		}

		candidates = append(candidates, search.Candidate{
			ExternalID:  strconv.FormatInt(p.PlaceID, 10),
			DisplayName: p.DisplayName,
			Point:       pt,
			PlaceType:   p.Type,
			PlaceClass:  p.Category,
			Importance:  clamp01(p.Importance),
		})
	}

	return candidates, nil
}

// Reverse names a coordinate using Nominatim's reverse endpoint.
func (g *NominatimGeocoder) Reverse(ctx context.Context, pt geo.Point) (string, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", pt.Lat))
		values.Set("lon", fmt.Sprintf("%f", pt.Lon))
		values.Set("format", "jsonv2")

		u := fmt.Sprintf("%s/reverse?%s", g.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", g.userAgent)
		return req, nil
	}

	resp, err := gateway.DoRequestWithResilience(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var place nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		return "", err
	}
	if place.DisplayName == "" {
		return "", fmt.Errorf("no reverse geocode result for %s", pt.Key(4))
	}
	return place.DisplayName, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
