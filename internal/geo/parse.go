package geo

import (
	"regexp"
	"strconv"
	"strings"
)

// coordPattern matches a strict "<lat>, <lon>" pair: two decimal numbers
// separated by a comma, with optional surrounding whitespace.
var coordPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseCoordinates interprets a free-text string as a "<lat>, <lon>" pair.
// It returns ok=false for any malformed input or out-of-range values; it
// never fails for bad data, only reports that the input is not coordinates.
func ParseCoordinates(s string) (Point, bool) {
	m := coordPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Point{}, false
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Point{}, false
	}

	pt, err := NewPoint(lat, lon)
	if err != nil {
		return Point{}, false
	}
	return pt, true
}
