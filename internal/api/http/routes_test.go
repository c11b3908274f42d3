package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/geo"
	"github.com/skywatch/stargazing-api/internal/search"
	"github.com/skywatch/stargazing-api/internal/store"
)

// stubGeocoder serves canned results for any variant.
type stubGeocoder struct {
	candidates []search.Candidate
}

func (s *stubGeocoder) Search(_ context.Context, _ string, _ *geo.Point, _ int) ([]search.Candidate, error) {
	return s.candidates, nil
}

func (s *stubGeocoder) Reverse(_ context.Context, pt geo.Point) (string, error) {
	return "Somewhere, Earth", nil
}

type stubAirGw struct{}

func (stubAirGw) Fetch(_ context.Context, pt geo.Point) (*conditions.AirQuality, error) {
	aqi := 35.0
	return &conditions.AirQuality{Point: pt, AQI: &aqi, Source: "stub", FetchedAt: time.Now().UTC()}, nil
}

type stubLightGw struct{}

func (stubLightGw) Fetch(_ context.Context, pt geo.Point) (*conditions.LightPollution, error) {
	return &conditions.LightPollution{Point: pt, BortleClass: 3, Source: "stub", FetchedAt: time.Now().UTC()}, nil
}

type stubSkyGw struct{}

func (stubSkyGw) Fetch(_ context.Context, pt geo.Point) (*conditions.SkyView, error) {
	return &conditions.SkyView{Point: pt, CloudCover: 2, Seeing: 5, Transparency: 6, RH2m: 45, Source: "stub", FetchedAt: time.Now().UTC()}, nil
}

func newTestApp(gc *stubGeocoder) *fiber.App {
	app := fiber.New()

	deps := Deps{
		Resolver:   search.NewResolver(gc, time.Minute),
		Conditions: conditions.NewService(stubAirGw{}, stubLightGw{}, stubSkyGw{}, time.Minute, time.Hour),
		Reverse:    gc,
		Pins:       store.NewPinStore(10),
	}
	RegisterRoutes(app, deps)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestSearchRequiresQuery(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/locations/search", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSearchCoordinateInput(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/locations/search?q=40.7128%2C+-74.0060", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		RequestID string                `json:"requestId"`
		Results   []search.RankedResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.RequestID == "" {
		t.Fatalf("expected a requestId")
	}
	if len(payload.Results) != 1 || payload.Results[0].PlaceType != "coordinate" {
		t.Fatalf("expected one coordinate result, got %+v", payload.Results)
	}
}

func TestSearchNotFoundCarriesVariants(t *testing.T) {
	app := newTestApp(&stubGeocoder{}) // no candidates

	resp := doRequest(t, app, http.MethodGet, "/api/v1/locations/search?q=mountain+hideout", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	var payload struct {
		AttemptedVariants []string `json:"attemptedVariants"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.AttemptedVariants) < 2 {
		t.Fatalf("expected synonym variants in the 404 body, got %v", payload.AttemptedVariants)
	}
}

func TestSuggestTooShort(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/locations/suggest?q=a", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestScoreHappyPath(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/score?lat=36.06&lon=-112.14", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Total  float64 `json:"total"`
		Rating string  `json:"rating"`
		Policy string  `json:"policy"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total <= 0 || payload.Total > 10 {
		t.Fatalf("total = %f, want (0,10]", payload.Total)
	}
	if payload.Policy != "ultimate" {
		t.Fatalf("policy = %q", payload.Policy)
	}
	if payload.Rating == "" {
		t.Fatalf("expected a rating label")
	}
}

func TestScoreInvalidPolicy(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/score?lat=36&lon=-112&policy=bogus", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestConditionsRequiresPoint(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/conditions", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestConstellationsBadTimestamp(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodGet, "/api/v1/constellations?lat=36&lon=-112&at=notatime", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestPinLifecycle(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodPost, "/api/v1/pins", `{"label":"dark site","lat":36.06,"lon":-112.14}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	var pin store.Pin
	if err := json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pin.ID == "" {
		t.Fatalf("expected pin id")
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/pins", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var listing struct {
		Pins []store.Pin `json:"pins"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing.Pins) != 1 {
		t.Fatalf("expected 1 pin, got %d", len(listing.Pins))
	}

	resp = doRequest(t, app, http.MethodDelete, "/api/v1/pins/"+pin.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/v1/pins/"+pin.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestPinRequiresLabel(t *testing.T) {
	app := newTestApp(&stubGeocoder{})

	resp := doRequest(t, app, http.MethodPost, "/api/v1/pins", `{"lat":36.06,"lon":-112.14}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
