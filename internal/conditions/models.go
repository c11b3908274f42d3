// Package conditions holds the per-domain condition snapshots (air quality,
// light pollution, sky viewability) and the service that fetches all three
// for a point.
package conditions

import (
	"context"
	"time"

	"github.com/skywatch/stargazing-api/internal/geo"
)

// AirQuality is one air-quality snapshot. Snapshots are never mutated after
// creation; a refresh creates a new one.
type AirQuality struct {
	Point     geo.Point `json:"point"`
	AQI       *float64  `json:"aqi"` // nil when the index is unavailable
	PM25      float64   `json:"pm25"`
	PM10      float64   `json:"pm10"`
	O3        float64   `json:"o3"`
	NO2       float64   `json:"no2"`
	SO2       float64   `json:"so2"`
	CO        float64   `json:"co"`
	Dominant  string    `json:"dominant"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
	IsStale   bool      `json:"isStale"`
	IsMock    bool      `json:"isMockData"`
}

// LightPollution is one light-pollution snapshot on the Bortle scale.
type LightPollution struct {
	Point       geo.Point `json:"point"`
	BortleClass int       `json:"bortleClass"` // 1 darkest .. 9 brightest
	SQM         float64   `json:"sqm"`
	NELM        float64   `json:"nelm"`
	MPSAS       float64   `json:"mpsas"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetchedAt"`
	IsFallback  bool      `json:"isFallback"`
}

// SkyView is one sky-viewability snapshot using the 7Timer-style coded
// scales: cloud cover 1-9, seeing and transparency 1-8. Zero means unknown.
type SkyView struct {
	Point        geo.Point `json:"point"`
	CloudCover   int       `json:"cloudCover"`
	Seeing       int       `json:"seeing"`
	Transparency int       `json:"transparency"`
	RH2m         int       `json:"rh2m"` // relative humidity percent
	Wind10m      float64   `json:"wind10m"`
	Temp2m       float64   `json:"temp2m"`
	Source       string    `json:"source"`
	FetchedAt    time.Time `json:"fetchedAt"`
	IsFallback   bool      `json:"isFallback"`
}

// Rating maps cloud cover to the qualitative sky rating consumed by the
// suitability engine.
func (s *SkyView) Rating() string {
	switch {
	case s.CloudCover <= 0:
		return "Unknown"
	case s.CloudCover == 1:
		return "Excellent"
	case s.CloudCover == 2:
		return "Very Good"
	case s.CloudCover == 3:
		return "Good"
	case s.CloudCover <= 5:
		return "Fair"
	case s.CloudCover <= 7:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// Bundle groups the three snapshots for one point. The scoring engine
// requires all three to be present.
type Bundle struct {
	Point geo.Point       `json:"point"`
	Air   *AirQuality     `json:"air"`
	Light *LightPollution `json:"light"`
	Sky   *SkyView        `json:"sky"`
}

// Complete reports whether every slot is filled.
func (b *Bundle) Complete() bool {
	return b != nil && b.Air != nil && b.Light != nil && b.Sky != nil
}

// AirQualityGateway fetches an air-quality snapshot. Implementations fall
// back to clearly flagged mock data instead of failing the overall operation.
type AirQualityGateway interface {
	Fetch(ctx context.Context, pt geo.Point) (*AirQuality, error)
}

// LightPollutionGateway estimates light pollution for a point.
type LightPollutionGateway interface {
	Fetch(ctx context.Context, pt geo.Point) (*LightPollution, error)
}

// SkyViewGateway fetches sky conditions. Implementations never fail past the
// boundary: when unreachable they return a deterministic fallback dataset
// flagged IsFallback.
type SkyViewGateway interface {
	Fetch(ctx context.Context, pt geo.Point) (*SkyView, error)
}
