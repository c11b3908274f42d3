package astro

import (
	"math"
	"sort"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/skywatch/stargazing-api/internal/geo"
)

// Observation is the computed visibility of one constellation for a point
// and moment. Ephemeral; recomputed per request.
type Observation struct {
	Name            string  `json:"name"`
	Abbr            string  `json:"abbr"`
	Altitude        float64 `json:"altitude"`
	Azimuth         float64 `json:"azimuth"`
	Direction       string  `json:"direction"`
	IsVisible       bool    `json:"isVisible"`
	VisibilityScore int     `json:"visibilityScore"` // 0-5
	Label           string  `json:"label"`
	Season          string  `json:"season"`
}

// MoonInfo carries moon illumination and rise/set for the report.
type MoonInfo struct {
	Illumination float64    `json:"illumination"` // percent
	Phase        float64    `json:"phase"`        // 0 new .. 0.5 full .. 1 new
	Rise         *time.Time `json:"rise,omitempty"`
	Set          *time.Time `json:"set,omitempty"`
}

// SkyReport is the full constellation-visibility answer.
type SkyReport struct {
	Point          geo.Point     `json:"point"`
	At             time.Time     `json:"at"`
	TimeOfDay      string        `json:"timeOfDay"`
	Moon           MoonInfo      `json:"moon"`
	Constellations []Observation `json:"constellations"`
	VisibleCount   int           `json:"visibleCount"`
	TotalCount     int           `json:"totalCount"`
}

// ComputeVisibility classifies every catalog entry for the given point and
// moment, sorted by visibility score descending then altitude descending.
func ComputeVisibility(pt geo.Point, at time.Time) *SkyReport {
	lst := SiderealTime(at, pt.Lon)

	observations := make([]Observation, 0, len(Catalog))
	visible := 0

	for _, c := range Catalog {
		alt, az := AltAz(c.RA, c.Dec, pt.Lat, lst)
		score, label := classifyAltitude(alt)

		obs := Observation{
			Name:            c.Name,
			Abbr:            c.Abbr,
			Altitude:        alt,
			Azimuth:         az,
			Direction:       CompassPoint(az),
			IsVisible:       score > 0,
			VisibilityScore: score,
			Label:           label,
			Season:          c.Season,
		}
		if obs.IsVisible {
			visible++
		}
		observations = append(observations, obs)
	}

	sort.SliceStable(observations, func(i, j int) bool {
		if observations[i].VisibilityScore != observations[j].VisibilityScore {
			return observations[i].VisibilityScore > observations[j].VisibilityScore
		}
		return observations[i].Altitude > observations[j].Altitude
	})

	return &SkyReport{
		Point:          pt,
		At:             at.UTC(),
		TimeOfDay:      timeOfDay(pt, at),
		Moon:           moonInfo(pt, at),
		Constellations: observations,
		VisibleCount:   visible,
		TotalCount:     len(observations),
	}
}

// classifyAltitude maps altitude bands to a 0-5 visibility score. Altitude
// exactly 0 or below is not visible.
func classifyAltitude(alt float64) (int, string) {
	switch {
	case alt > 60:
		return 5, "Excellent (Overhead)"
	case alt > 30:
		return 4, "Very Good"
	case alt > 15:
		return 3, "Good"
	case alt > 5:
		return 2, "Low"
	case alt > 0:
		return 1, "Near Horizon"
	default:
		return 0, "Below Horizon"
	}
}

// timeOfDay classifies the moment by solar altitude, using the same
// thresholds as the twilight bands.
func timeOfDay(pt geo.Point, at time.Time) string {
	pos := suncalc.GetPosition(at, pt.Lat, pt.Lon)
	altDeg := pos.Altitude * 180 / math.Pi

	switch {
	case altDeg < -18:
		return "night"
	case altDeg < -12:
		return "nautical twilight"
	case altDeg < -6:
		return "civil twilight"
	case altDeg < 0:
		return "golden hour"
	default:
		return "day"
	}
}

func moonInfo(pt geo.Point, at time.Time) MoonInfo {
	illum := suncalc.GetMoonIllumination(at)
	times := suncalc.GetMoonTimes(at, pt.Lat, pt.Lon, false)

	info := MoonInfo{
		Illumination: illum.Fraction * 100,
		Phase:        illum.Phase,
	}
	if !times.Rise.IsZero() {
		rise := times.Rise
		info.Rise = &rise
	}
	if !times.Set.IsZero() {
		set := times.Set
		info.Set = &set
	}
	return info
}
