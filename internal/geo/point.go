package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Point is an immutable geographic coordinate pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewPoint validates ranges and returns a Point.
func NewPoint(lat, lon float64) (Point, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return Point{}, fmt.Errorf("coordinates must be numeric")
	}
	if lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("latitude %v out of range [-90,90]", lat)
	}
	if lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("longitude %v out of range [-180,180]", lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// Orb converts to the orb representation (lon, lat order).
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Key returns a rounded-coordinate cache key, e.g. "40.71:-74.01" at
// precision 2. All condition caches share this keying.
func (p Point) Key(precision int) string {
	return fmt.Sprintf("%.*f:%.*f", precision, p.Lat, precision, p.Lon)
}

// earthRadiusKm is the mean Earth radius used for haversine distances.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundAround returns a bounding box centered on p extending radiusMeters in
// every direction. Used to bias geocoding lookups toward the user.
func BoundAround(p Point, radiusMeters float64) orb.Bound {
	return orbgeo.NewBoundAroundPoint(p.Orb(), radiusMeters)
}
