package conditions

import (
	"math"
	"time"

	"github.com/skywatch/stargazing-api/internal/geo"
)

// BortleEntry describes one class of the Bortle scale with representative
// sky-darkness measurements.
type BortleEntry struct {
	Class       int
	Name        string
	Description string
	SQM         float64
	NELM        float64
	MPSAS       float64
}

// BortleScale is the fixed descriptive table, class 1 through 9.
var BortleScale = [9]BortleEntry{
	{1, "Excellent dark-sky site", "Zodiacal light, gegenschein and airglow all visible; Milky Way casts shadows.", 21.9, 7.8, 21.9},
	{2, "Typical truly dark site", "Airglow weakly visible; Milky Way highly structured to the unaided eye.", 21.7, 7.3, 21.7},
	{3, "Rural sky", "Some light pollution on the horizon; Milky Way still appears complex.", 21.4, 6.8, 21.4},
	{4, "Rural/suburban transition", "Light-pollution domes over population centers; Milky Way above the horizon only.", 20.8, 6.3, 20.8},
	{5, "Suburban sky", "Milky Way washed out at the horizon and looks ragged overhead.", 20.1, 5.8, 20.1},
	{6, "Bright suburban sky", "Milky Way only apparent toward the zenith; sky within 35 degrees of horizon glows.", 19.3, 5.5, 19.3},
	{7, "Suburban/urban transition", "Entire sky has a grayish-white hue; Milky Way nearly invisible.", 18.5, 5.0, 18.5},
	{8, "City sky", "Sky glows white or orange; only bright constellations recognizable.", 17.8, 4.5, 17.8},
	{9, "Inner-city sky", "Sky brilliantly lit; only the Moon, planets and a few bright stars visible.", 17.0, 4.0, 17.0},
}

// EstimateLightPollution is the fallback estimator: a lat/lon-seeded
// trigonometric hash standing in for a real tile or raster lookup. It is a
// placeholder policy, not a physical model, and is deterministic for a given
// point so cached scores stay stable.
func EstimateLightPollution(pt geo.Point) *LightPollution {
	v := math.Sin(pt.Lat*12.9898) * math.Cos(pt.Lon*78.233) * 43758.5453
	frac := math.Abs(v - math.Trunc(v))

	class := 1 + int(frac*9)
	if class > 9 {
		class = 9
	}
	entry := BortleScale[class-1]

	return &LightPollution{
		Point:       pt,
		BortleClass: entry.Class,
		SQM:         entry.SQM,
		NELM:        entry.NELM,
		MPSAS:       entry.MPSAS,
		Name:        entry.Name,
		Description: entry.Description,
		Source:      "heuristic-estimator",
		FetchedAt:   time.Now().UTC(),
	}
}

// MockAirQuality is the deterministic dataset served when the air-quality
// gateway is unreachable. It reports a moderate, clearly flagged reading.
func MockAirQuality(pt geo.Point) *AirQuality {
	aqi := 42.0
	return &AirQuality{
		Point:     pt,
		AQI:       &aqi,
		PM25:      8.5,
		PM10:      14.0,
		O3:        52.0,
		NO2:       9.0,
		SO2:       1.5,
		CO:        220.0,
		Dominant:  "pm25",
		Source:    "mock",
		FetchedAt: time.Now().UTC(),
		IsMock:    true,
	}
}

// FallbackSkyView is the deterministic dataset served when the sky gateway
// is unreachable: average conditions, clearly flagged.
func FallbackSkyView(pt geo.Point) *SkyView {
	return &SkyView{
		Point:        pt,
		CloudCover:   4,
		Seeing:       4,
		Transparency: 4,
		RH2m:         55,
		Wind10m:      3,
		Temp2m:       12,
		Source:       "fallback",
		FetchedAt:    time.Now().UTC(),
		IsFallback:   true,
	}
}
