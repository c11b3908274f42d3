package astro

import (
	"math"
	"time"
)

const degToRad = math.Pi / 180

// julianDate converts a time to the Julian date.
func julianDate(t time.Time) float64 {
	// Unix epoch is JD 2440587.5.
	return float64(t.UnixMilli())/86400000.0 + 2440587.5
}

// SiderealTime returns the local mean sidereal time in hours [0,24) for a
// moment and an observer longitude (degrees east).
func SiderealTime(t time.Time, lonDeg float64) float64 {
	jd := julianDate(t.UTC())
	d := jd - 2451545.0
	tc := d / 36525.0

	// GMST in degrees, IAU 1982 expression.
	gmst := 280.46061837 + 360.98564736629*d + 0.000387933*tc*tc - tc*tc*tc/38710000.0

	lst := math.Mod(gmst+lonDeg, 360)
	if lst < 0 {
		lst += 360
	}
	return lst / 15
}

// AltAz converts equatorial coordinates (RA in hours, Dec in degrees) to
// horizontal altitude/azimuth in degrees for an observer at latDeg using the
// local sidereal time lstHours. Azimuth is measured from north through east.
func AltAz(raHours, decDeg, latDeg, lstHours float64) (alt, az float64) {
	ha := (lstHours - raHours) * 15 // hour angle in degrees
	haRad := ha * degToRad
	decRad := decDeg * degToRad
	latRad := latDeg * degToRad

	sinAlt := math.Sin(decRad)*math.Sin(latRad) + math.Cos(decRad)*math.Cos(latRad)*math.Cos(haRad)
	altRad := math.Asin(sinAlt)

	denom := math.Cos(altRad) * math.Cos(latRad)
	if math.Abs(denom) < 1e-12 {
		// Zenith, nadir, or a pole observer: azimuth is undefined.
		return altRad / degToRad, 0
	}

	cosA := (math.Sin(decRad) - sinAlt*math.Sin(latRad)) / denom
	// Clamp for the degenerate zenith/nadir cases before Acos.
	if cosA > 1 {
		cosA = 1
	} else if cosA < -1 {
		cosA = -1
	}
	a := math.Acos(cosA) / degToRad

	if math.Sin(haRad) > 0 {
		a = 360 - a
	}
	return altRad / degToRad, a
}

// compassPoints are the 16 compass directions in clockwise order from north.
var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint maps an azimuth in degrees to one of 16 compass points.
func CompassPoint(azDeg float64) string {
	idx := int(math.Round(azDeg/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}
