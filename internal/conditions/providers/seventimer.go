package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/gateway"
	"github.com/skywatch/stargazing-api/internal/geo"
)

// SevenTimerProvider implements conditions.SkyViewGateway against the 7Timer
// astro product, which reports cloud cover (1-9), seeing (1-8) and
// transparency (1-8) for astronomical use. The provider never fails past the
// boundary: any error resolves to the deterministic fallback dataset.
type SevenTimerProvider struct {
	name    string
	baseURL string
	httpCfg gateway.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSevenTimerProvider(client *http.Client, baseURL string) *SevenTimerProvider {
	if baseURL == "" {
		baseURL = "https://www.7timer.info/bin/astro.php"
	}
	return &SevenTimerProvider{
		name:    "7timer-astro",
		baseURL: baseURL,
		httpCfg: gateway.HTTPClientConfig{
			Client:  client,
			Backoff: gateway.DefaultBackoff,
		},
		circuit: gateway.NewBreaker("7timer"),
	}
}

type sevenTimerResponse struct {
	DataSeries []struct {
		Timepoint    int `json:"timepoint"`
		CloudCover   int `json:"cloudcover"`
		Seeing       int `json:"seeing"`
		Transparency int `json:"transparency"`
		RH2m         int `json:"rh2m"`
		Wind10m      struct {
			Direction string `json:"direction"`
			Speed     int    `json:"speed"`
		} `json:"wind10m"`
		Temp2m int `json:"temp2m"`
	} `json:"dataseries"`
}

func (p *SevenTimerProvider) Fetch(ctx context.Context, pt geo.Point) (*conditions.SkyView, error) {
	snap, err := p.fetch(ctx, pt)
	if err != nil {
		log.Printf("7timer: falling back for %s: %v", pt.Key(2), err)
		return conditions.FallbackSkyView(pt), nil
	}
	return snap, nil
}

func (p *SevenTimerProvider) fetch(ctx context.Context, pt geo.Point) (*conditions.SkyView, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", pt.Lat))
		values.Set("lon", fmt.Sprintf("%f", pt.Lon))
		values.Set("ac", "0")
		values.Set("unit", "metric")
		values.Set("output", "json")
		values.Set("tzshift", "0")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := gateway.DoRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload sevenTimerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.DataSeries) == 0 {
		return nil, fmt.Errorf("empty dataseries")
	}

	// The first timepoint is the nearest forecast block.
	d := payload.DataSeries[0]

	return &conditions.SkyView{
		Point:        pt,
		CloudCover:   d.CloudCover,
		Seeing:       d.Seeing,
		Transparency: d.Transparency,
		RH2m:         decodeRH(d.RH2m),
		Wind10m:      float64(d.Wind10m.Speed),
		Temp2m:       float64(d.Temp2m),
		Source:       p.name,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// decodeRH converts 7Timer's coded relative humidity (-4..16, 5% steps) to a
// percentage.
func decodeRH(code int) int {
	pct := code*5 + 2
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
