package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/geo"
)

// SunTimes holds sunrise/sunset and the three twilight bands for one night
// (evening of the requested date through the following morning).
type SunTimes struct {
	Sunset           time.Time `json:"sunset"`
	CivilDusk        time.Time `json:"civilDusk"`        // sun -6°
	NauticalDusk     time.Time `json:"nauticalDusk"`     // sun -12°
	AstronomicalDusk time.Time `json:"astronomicalDusk"` // sun -18°
	AstronomicalDawn time.Time `json:"astronomicalDawn"`
	NauticalDawn     time.Time `json:"nauticalDawn"`
	CivilDawn        time.Time `json:"civilDawn"`
	Sunrise          time.Time `json:"sunrise"`
}

// WindowScores are the 0-100 sub-scores feeding the overall night quality.
type WindowScores struct {
	Cloud        int `json:"cloudCover"`
	Humidity     int `json:"humidity"`
	Light        int `json:"lightPollution"`
	Transparency int `json:"transparency"`
}

// Window is a recommended observation period.
type Window struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Quality     string    `json:"qualityCategory"` // "optimal" or "acceptable"
	Description string    `json:"description"`
}

// NightPlan is the full stargazing-window result for one point and date.
type NightPlan struct {
	Point           geo.Point    `json:"point"`
	Date            string       `json:"date"`
	Sun             SunTimes     `json:"sunTimes"`
	Scores          WindowScores `json:"scores"`
	OverallQuality  int          `json:"overallQuality"` // 0-100
	Windows         []Window     `json:"timeWindows"`
	Recommendations []string     `json:"recommendations"`
}

// Overall quality thresholds for the window policy.
const (
	qualityHigh = 55
	qualityLow  = 25
)

// Sub-score weights for the overall night quality.
const (
	windowWeightCloud        = 0.40
	windowWeightLight        = 0.30
	windowWeightTransparency = 0.20
	windowWeightHumidity     = 0.10
)

// ComputeWindows derives observation time windows for the night of date from
// sun geometry and the sky/light snapshots.
func ComputeWindows(pt geo.Point, sky *conditions.SkyView, light *conditions.LightPollution, date time.Time) (*NightPlan, error) {
	if sky == nil || light == nil {
		return nil, ErrIncompleteBundle
	}

	scores := WindowScores{
		Cloud:        cloudScore(sky.CloudCover),
		Humidity:     humidityScore(sky.RH2m),
		Light:        lightPollutionScore(light.BortleClass),
		Transparency: transparencyScore(sky.Transparency),
	}
	overall := int(math.Round(
		windowWeightCloud*float64(scores.Cloud) +
			windowWeightLight*float64(scores.Light) +
			windowWeightTransparency*float64(scores.Transparency) +
			windowWeightHumidity*float64(scores.Humidity)))

	sun := nightSunTimes(pt, date)

	var windows []Window
	if w := optimalWindow(sun.AstronomicalDusk, sun.AstronomicalDawn, overall); w != nil {
		windows = append(windows, *w)
	}
	windows = append(windows, twilightWindows(sun)...)

	return &NightPlan{
		Point:           pt,
		Date:            date.Format("2006-01-02"),
		Sun:             sun,
		Scores:          scores,
		OverallQuality:  overall,
		Windows:         windows,
		Recommendations: recommendations(scores, overall),
	}, nil
}

// nightSunTimes computes the evening twilight ladder for date and the dawn
// ladder for the following morning. At high latitudes a band the sun never
// crosses yields a zero time; consumers fall back to the next brighter band.
func nightSunTimes(pt geo.Point, date time.Time) SunTimes {
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC)
	evening := suncalc.GetTimes(noon, pt.Lat, pt.Lon)
	morning := suncalc.GetTimes(noon.AddDate(0, 0, 1), pt.Lat, pt.Lon)

	st := SunTimes{
		Sunset:           evening[suncalc.Sunset].Value,
		CivilDusk:        evening[suncalc.Dusk].Value,
		NauticalDusk:     evening[suncalc.NauticalDusk].Value,
		AstronomicalDusk: evening[suncalc.Night].Value,
		AstronomicalDawn: morning[suncalc.NightEnd].Value,
		NauticalDawn:     morning[suncalc.NauticalDawn].Value,
		CivilDawn:        morning[suncalc.Dawn].Value,
		Sunrise:          morning[suncalc.Sunrise].Value,
	}

	// No astronomical night at this latitude and season: use the nautical
	// band as the dark period.
	if st.AstronomicalDusk.IsZero() || st.AstronomicalDawn.IsZero() {
		st.AstronomicalDusk = st.NauticalDusk
		st.AstronomicalDawn = st.NauticalDawn
	}
	return st
}

// optimalWindow applies the window policy: full dark period when quality is
// high, a four-hour band around the dark midpoint when middling, nothing when
// poor. The midpoint is computed correctly across a midnight crossing.
func optimalWindow(dusk, dawn time.Time, quality int) *Window {
	if quality < qualityLow || dusk.IsZero() || dawn.IsZero() {
		return nil
	}

	// When dawn precedes dusk numerically the dark period crosses
	// midnight; shift dawn forward a day before averaging.
	if dawn.Before(dusk) {
		dawn = dawn.Add(24 * time.Hour)
	}

	if quality >= qualityHigh {
		return &Window{
			Start:       dusk,
			End:         dawn,
			Quality:     "optimal",
			Description: "Entire astronomical dark period; conditions support deep-sky observation.",
		}
	}

	mid := dusk.Add(dawn.Sub(dusk) / 2)
	return &Window{
		Start:       mid.Add(-2 * time.Hour),
		End:         mid.Add(2 * time.Hour),
		Quality:     "optimal",
		Description: "Four hours around the darkest part of the night; conditions are mixed.",
	}
}

// twilightWindows returns the two acceptable secondary windows, always
// present regardless of overall quality.
func twilightWindows(sun SunTimes) []Window {
	var out []Window
	if !sun.CivilDusk.IsZero() && !sun.AstronomicalDusk.IsZero() {
		out = append(out, Window{
			Start:       sun.CivilDusk,
			End:         sun.AstronomicalDusk,
			Quality:     "acceptable",
			Description: "Evening twilight; suitable for Moon and planet viewing.",
		})
	}
	if !sun.AstronomicalDawn.IsZero() && !sun.CivilDawn.IsZero() {
		out = append(out, Window{
			Start:       sun.AstronomicalDawn,
			End:         sun.CivilDawn,
			Quality:     "acceptable",
			Description: "Morning twilight; suitable for Moon and planet viewing.",
		})
	}
	return out
}

// cloudScore maps cloud cover 1-9 onto 0-100, clearest scoring highest.
// Unknown cover scores the neutral 50.
func cloudScore(cc int) int {
	if cc < 1 || cc > 9 {
		return 50
	}
	return int(math.Round(float64(9-cc) / 8 * 100))
}

// humidityScore is a step function over relative humidity percent; missing
// readings score the neutral 50.
func humidityScore(rh int) int {
	switch {
	case rh <= 0:
		return 50
	case rh <= 40:
		return 100
	case rh <= 60:
		return 80
	case rh <= 70:
		return 60
	case rh <= 80:
		return 40
	default:
		return 20
	}
}

func lightPollutionScore(bortle int) int {
	if bortle < 1 || bortle > 9 {
		return 50
	}
	return int(math.Round(float64(9-bortle) / 8 * 100))
}

func transparencyScore(t int) int {
	if t < 1 || t > 8 {
		return 50
	}
	return int(math.Round(float64(t-1) / 7 * 100))
}

// recommendations generates advisory strings from independent threshold
// checks on each sub-score, plus a quality-dependent capstone remark. The
// checks are not mutually exclusive.
func recommendations(s WindowScores, overall int) []string {
	var out []string

	if s.Cloud < 40 {
		out = append(out, "Heavy cloud cover expected; consider a different night.")
	} else if s.Cloud >= 80 {
		out = append(out, "Mostly clear skies expected.")
	}
	if s.Humidity <= 40 {
		out = append(out, "High humidity; optics may dew up, bring a dew heater.")
	}
	if s.Light < 40 {
		out = append(out, "Significant light pollution; travel to a darker site for deep-sky targets.")
	}
	if s.Transparency >= 80 {
		out = append(out, "Excellent transparency for faint deep-sky objects.")
	}

	switch {
	case overall >= 75:
		out = append(out, fmt.Sprintf("Overall quality %d/100: an excellent night for observing.", overall))
	case overall >= qualityHigh:
		out = append(out, fmt.Sprintf("Overall quality %d/100: a good night for observing.", overall))
	case overall >= qualityLow:
		out = append(out, fmt.Sprintf("Overall quality %d/100: stick to bright targets like the Moon and planets.", overall))
	default:
		out = append(out, fmt.Sprintf("Overall quality %d/100: poor conditions for observation tonight.", overall))
	}

	return out
}
