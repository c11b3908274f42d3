package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/skywatch/stargazing-api/internal/geo"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// Gateway endpoints. Empty means the provider default.
	NominatimBaseURL  string
	SevenTimerBaseURL string
	AirQualityBaseURL string

	// Optional Google geocoding key for reverse lookups.
	GoogleAPIKey string

	// User-Agent sent to Nominatim, which requires one.
	GeocoderUserAgent string

	// Cache TTLs.
	ResolverTTL  time.Duration // search and autocomplete results
	SkyLightTTL  time.Duration // sky and light condition snapshots
	AirFreshness time.Duration // air snapshots older than this are stale

	// Locations the scheduler keeps warm, and how often.
	TrackedLocations  []geo.Point
	SchedulerInterval time.Duration

	// Pinned-location cap per session.
	MaxPins int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		NominatimBaseURL:  os.Getenv("NOMINATIM_BASE_URL"),
		SevenTimerBaseURL: os.Getenv("SEVENTIMER_BASE_URL"),
		AirQualityBaseURL: os.Getenv("AIR_QUALITY_BASE_URL"),
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		GeocoderUserAgent: getenvDefault("GEOCODER_USER_AGENT", "stargazing-api/1.0"),
		MaxPins:           getenvInt("MAX_PINS", 50),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ResolverTTL, err = getenvDuration("RESOLVER_CACHE_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.SkyLightTTL, err = getenvDuration("CONDITION_CACHE_TTL", "45m"); err != nil {
		return nil, err
	}
	if cfg.AirFreshness, err = getenvDuration("AIR_FRESHNESS_WINDOW", "3h"); err != nil {
		return nil, err
	}
	if cfg.SchedulerInterval, err = getenvDuration("REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}

	locs, err := loadTrackedLocations()
	if err != nil {
		return nil, err
	}
	cfg.TrackedLocations = locs

	return cfg, nil
}

// loadTrackedLocations parses TRACKED_LOCATIONS, a semicolon-separated list
// of "lat,lon" pairs. The variable is optional.
func loadTrackedLocations() ([]geo.Point, error) {
	raw := strings.TrimSpace(os.Getenv("TRACKED_LOCATIONS"))
	if raw == "" {
		return nil, nil
	}

	var locs []geo.Point
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pt, ok := geo.ParseCoordinates(part)
		if !ok {
			return nil, fmt.Errorf("invalid TRACKED_LOCATIONS entry %q", part)
		}
		locs = append(locs, pt)
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
