package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/gateway"
	"github.com/skywatch/stargazing-api/internal/geo"
)

// OpenMeteoAirProvider implements conditions.AirQualityGateway against the
// Open-Meteo air-quality API. No API key required.
type OpenMeteoAirProvider struct {
	name    string
	baseURL string
	httpCfg gateway.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoAirProvider(client *http.Client, baseURL string) *OpenMeteoAirProvider {
	if baseURL == "" {
		baseURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	}
	return &OpenMeteoAirProvider{
		name:    "open-meteo-air",
		baseURL: baseURL,
		httpCfg: gateway.HTTPClientConfig{
			Client:  client,
			Backoff: gateway.DefaultBackoff,
		},
		circuit: gateway.NewBreaker("open-meteo-air"),
	}
}

func (p *OpenMeteoAirProvider) Fetch(ctx context.Context, pt geo.Point) (*conditions.AirQuality, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", pt.Lat))
		values.Set("longitude", fmt.Sprintf("%f", pt.Lon))
		values.Set("current", "us_aqi,pm2_5,pm10,ozone,nitrogen_dioxide,sulphur_dioxide,carbon_monoxide")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := gateway.DoRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Time       string   `json:"time"`
			USAQI      *float64 `json:"us_aqi"`
			PM25       float64  `json:"pm2_5"`
			PM10       float64  `json:"pm10"`
			Ozone      float64  `json:"ozone"`
			NO2        float64  `json:"nitrogen_dioxide"`
			SO2        float64  `json:"sulphur_dioxide"`
			CO         float64  `json:"carbon_monoxide"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &conditions.AirQuality{
		Point:     pt,
		AQI:       payload.Current.USAQI,
		PM25:      payload.Current.PM25,
		PM10:      payload.Current.PM10,
		O3:        payload.Current.Ozone,
		NO2:       payload.Current.NO2,
		SO2:       payload.Current.SO2,
		CO:        payload.Current.CO,
		Dominant:  dominantPollutant(payload.Current.PM25, payload.Current.PM10, payload.Current.Ozone, payload.Current.NO2),
		Source:    p.name,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// dominantPollutant picks the pollutant with the largest share of its
// EPA breakpoint, a coarse stand-in for the per-pollutant sub-index.
func dominantPollutant(pm25, pm10, o3, no2 float64) string {
	best, bestRatio := "pm25", pm25/35.0
	if r := pm10 / 150.0; r > bestRatio {
		best, bestRatio = "pm10", r
	}
	if r := o3 / 120.0; r > bestRatio {
		best, bestRatio = "o3", r
	}
	if r := no2 / 100.0; r > bestRatio {
		best = "no2"
	}
	return best
}
