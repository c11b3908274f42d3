package conditions

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/skywatch/stargazing-api/internal/cache"
	"github.com/skywatch/stargazing-api/internal/geo"
)

// coordPrecision rounds coordinates for cache keys; two decimals is roughly
// a 1 km cell, which is finer than any of the condition datasets.
const coordPrecision = 2

// Service fetches the three condition snapshots for a point, caching each
// domain separately by rounded coordinate key.
type Service struct {
	airGw   AirQualityGateway
	lightGw LightPollutionGateway
	skyGw   SkyViewGateway

	airCache   *cache.TTL[*AirQuality]
	lightCache *cache.TTL[*LightPollution]
	skyCache   *cache.TTL[*SkyView]

	// Air snapshots older than this are still served but flagged stale.
	airFreshness time.Duration
}

// NewService wires the three gateways with their caches. skyLightTTL applies
// to the sky and light caches; air snapshots are kept for twice the
// freshness window and flagged stale past it.
func NewService(air AirQualityGateway, light LightPollutionGateway, sky SkyViewGateway,
	skyLightTTL, airFreshness time.Duration) *Service {
	return &Service{
		airGw:        air,
		lightGw:      light,
		skyGw:        sky,
		airCache:     cache.New[*AirQuality](2 * airFreshness),
		lightCache:   cache.New[*LightPollution](skyLightTTL),
		skyCache:     cache.New[*SkyView](skyLightTTL),
		airFreshness: airFreshness,
	}
}

// Fetch returns a complete Bundle for the point. The three domains are
// fetched concurrently, each writing to its own slot; the call returns only
// once every slot is filled. Gateway degradation yields flagged fallback
// data, never a partial bundle.
func (s *Service) Fetch(ctx context.Context, pt geo.Point) (*Bundle, error) {
	key := pt.Key(coordPrecision)
	bundle := &Bundle{Point: pt}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		bundle.Air = s.fetchAir(ctx, pt, key)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		bundle.Light = s.fetchLight(ctx, pt, key)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		bundle.Sky = s.fetchSky(ctx, pt, key)
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (s *Service) fetchAir(ctx context.Context, pt geo.Point, key string) *AirQuality {
	if cached, ok := s.airCache.Get(key); ok {
		if time.Since(cached.FetchedAt) <= s.airFreshness {
			return cached
		}
		// Past the freshness window: try a refresh, fall back to a stale
		// copy of the cached snapshot.
		if snap, err := s.airGw.Fetch(ctx, pt); err == nil {
			s.airCache.Set(key, snap)
			return snap
		}
		stale := *cached
		stale.IsStale = true
		return &stale
	}

	snap, err := s.airGw.Fetch(ctx, pt)
	if err != nil {
		log.Printf("conditions: air quality fetch failed for %s: %v", key, err)
		return MockAirQuality(pt)
	}
	s.airCache.Set(key, snap)
	return snap
}

func (s *Service) fetchLight(ctx context.Context, pt geo.Point, key string) *LightPollution {
	if cached, ok := s.lightCache.Get(key); ok {
		return cached
	}

	snap, err := s.lightGw.Fetch(ctx, pt)
	if err != nil {
		// The default estimator cannot fail; a real tile lookup can.
		log.Printf("conditions: light pollution fetch failed for %s: %v", key, err)
		snap = EstimateLightPollution(pt)
		snap.IsFallback = true
	}
	if !snap.IsFallback {
		// Fallback data is not worth caching; a later call should retry.
		s.lightCache.Set(key, snap)
	}
	return snap
}

func (s *Service) fetchSky(ctx context.Context, pt geo.Point, key string) *SkyView {
	if cached, ok := s.skyCache.Get(key); ok {
		return cached
	}

	snap, err := s.skyGw.Fetch(ctx, pt)
	if err != nil {
		log.Printf("conditions: sky fetch failed for %s: %v", key, err)
		snap = FallbackSkyView(pt)
	}
	if !snap.IsFallback {
		// Fallback data is not worth caching; a later call should retry.
		s.skyCache.Set(key, snap)
	}
	return snap
}
