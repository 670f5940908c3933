package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
	"github.com/couchcryptid/bmkg-data-proxy/internal/observability"
)

// TEWS feed endpoints under the earthquake base URL.
const (
	endpointLatest = "autogempa.json"
	endpointRecent = "gempaterkini.json"
	endpointFelt   = "gempadirasakan.json"
)

// DefaultNearbyRadiusKm applies when a nearby query omits the radius.
const DefaultNearbyRadiusKm = 200

// maxNearbyRadiusKm bounds the nearby search radius.
const maxNearbyRadiusKm = 5000

// EarthquakeService serves the TEWS seismic feeds through the cache.
type EarthquakeService struct {
	cache     *cache.Cache
	client    Fetcher
	baseURL   string
	ttlLatest time.Duration
	ttlList   time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewEarthquakeService wires the earthquake operations.
func NewEarthquakeService(c *cache.Cache, client Fetcher, baseURL string, ttlLatest, ttlList time.Duration, metrics *observability.Metrics, logger *slog.Logger) *EarthquakeService {
	return &EarthquakeService{
		cache:     c,
		client:    client,
		baseURL:   baseURL,
		ttlLatest: ttlLatest,
		ttlList:   ttlList,
		metrics:   metrics,
		logger:    logger,
	}
}

// feed returns the parsed records for one TEWS endpoint, cache first.
func (s *EarthquakeService) feed(ctx context.Context, endpoint, key string, ttl time.Duration) ([]domain.Earthquake, Meta, error) {
	payload, meta, err := readThrough(ctx, s.cache, s.metrics, s.logger, "earthquake", key, ttl,
		func(ctx context.Context) ([]byte, error) {
			return s.client.Get(ctx, s.baseURL+"/"+endpoint, nil)
		},
		func(body []byte) (string, error) {
			quakes, err := domain.ParseQuakeFeed(body)
			if err != nil {
				return "", err
			}
			serialized, err := json.Marshal(quakes)
			if err != nil {
				return "", fmt.Errorf("%w: serialize records: %v", domain.ErrParse, err)
			}
			return string(serialized), nil
		})
	if err != nil {
		return nil, Meta{}, err
	}

	var quakes []domain.Earthquake
	if err := json.Unmarshal([]byte(payload), &quakes); err != nil {
		return nil, Meta{}, fmt.Errorf("%w: cached earthquake records: %v", domain.ErrParse, err)
	}
	return quakes, meta, nil
}

// Latest returns the most recent event from the single-record feed.
func (s *EarthquakeService) Latest(ctx context.Context) (domain.Earthquake, Meta, error) {
	quakes, meta, err := s.feed(ctx, endpointLatest, "earthquake:latest", s.ttlLatest)
	if err != nil {
		return domain.Earthquake{}, Meta{}, err
	}
	if len(quakes) == 0 {
		return domain.Earthquake{}, Meta{}, fmt.Errorf("%w: latest feed has no records", domain.ErrParse)
	}
	return quakes[0], meta, nil
}

// Recent returns the magnitude-5+ feed.
func (s *EarthquakeService) Recent(ctx context.Context) ([]domain.Earthquake, Meta, error) {
	return s.feed(ctx, endpointRecent, "earthquake:recent", s.ttlList)
}

// Felt returns the felt-report feed.
func (s *EarthquakeService) Felt(ctx context.Context) ([]domain.Earthquake, Meta, error) {
	return s.feed(ctx, endpointFelt, "earthquake:felt", s.ttlList)
}

// Nearby merges the recent and felt feeds and returns the events within
// radiusKm of the given point, nearest first. A radius of zero applies
// the default. Events appearing in both feeds are counted once, keyed by
// occurrence time and magnitude, with the recent feed winning.
func (s *EarthquakeService) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.EarthquakeWithDistance, Meta, error) {
	if lat < -90 || lat > 90 {
		return nil, Meta{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", domain.ErrValidation, lat)
	}
	if lon < -180 || lon > 180 {
		return nil, Meta{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", domain.ErrValidation, lon)
	}
	if radiusKm == 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm < 0 || radiusKm > maxNearbyRadiusKm {
		return nil, Meta{}, fmt.Errorf("%w: radius %v out of range (0, %d]", domain.ErrValidation, radiusKm, maxNearbyRadiusKm)
	}

	recent, recentMeta, err := s.Recent(ctx)
	if err != nil {
		return nil, Meta{}, err
	}
	felt, feltMeta, err := s.Felt(ctx)
	if err != nil {
		return nil, Meta{}, err
	}

	type dedupeKey struct {
		occurredAt time.Time
		magnitude  float64
	}
	seen := make(map[dedupeKey]bool)

	var nearby []domain.EarthquakeWithDistance
	for _, quake := range append(recent, felt...) {
		k := dedupeKey{quake.OccurredAt, quake.Magnitude}
		if seen[k] {
			continue
		}
		seen[k] = true

		distance := domain.Haversine(lat, lon, quake.Lat, quake.Lon)
		if distance > radiusKm {
			continue
		}
		nearby = append(nearby, domain.EarthquakeWithDistance{
			Earthquake: quake,
			DistanceKm: distance,
		})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	meta := recentMeta
	if feltMeta.CacheTTL < meta.CacheTTL {
		meta.CacheTTL = feltMeta.CacheTTL
	}
	return nearby, meta, nil
}
