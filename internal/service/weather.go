package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
	"github.com/couchcryptid/bmkg-data-proxy/internal/observability"
)

// WeatherService serves village-level forecasts through the cache.
type WeatherService struct {
	cache   *cache.Cache
	client  Fetcher
	baseURL string
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWeatherService wires the forecast operations.
func NewWeatherService(c *cache.Cache, client Fetcher, baseURL string, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *WeatherService {
	return &WeatherService{
		cache:   c,
		client:  client,
		baseURL: baseURL,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// validAdm4 requires exactly four dot-separated all-digit segments, the
// village-level code shape.
func validAdm4(code string) bool {
	parts := strings.Split(code, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// Forecast returns the multi-day forecast for a village-level area code.
func (s *WeatherService) Forecast(ctx context.Context, adm4 string) (domain.Forecast, Meta, error) {
	adm4 = strings.TrimSpace(adm4)
	if !validAdm4(adm4) {
		return domain.Forecast{}, Meta{}, fmt.Errorf("%w: adm4 code %q must be four dot-separated numeric segments", domain.ErrValidation, adm4)
	}

	payload, meta, err := readThrough(ctx, s.cache, s.metrics, s.logger, "weather", "weather:forecast:"+adm4, s.ttl,
		func(ctx context.Context) ([]byte, error) {
			return s.client.Get(ctx, s.baseURL, url.Values{"adm4": {adm4}})
		},
		func(body []byte) (string, error) {
			forecast, err := domain.ParseForecast(body)
			if err != nil {
				return "", err
			}
			serialized, err := json.Marshal(forecast)
			if err != nil {
				return "", fmt.Errorf("%w: serialize forecast: %v", domain.ErrParse, err)
			}
			return string(serialized), nil
		})
	if err != nil {
		return domain.Forecast{}, Meta{}, err
	}

	var forecast domain.Forecast
	if err := json.Unmarshal([]byte(payload), &forecast); err != nil {
		return domain.Forecast{}, Meta{}, fmt.Errorf("%w: cached forecast: %v", domain.ErrParse, err)
	}
	return forecast, meta, nil
}

// Current returns the forecast entry nearest to now for an area code.
func (s *WeatherService) Current(ctx context.Context, adm4 string) (domain.CurrentWeather, Meta, error) {
	forecast, meta, err := s.Forecast(ctx, adm4)
	if err != nil {
		return domain.CurrentWeather{}, Meta{}, err
	}

	entry, ok := domain.FindCurrentEntry(forecast)
	if !ok {
		return domain.CurrentWeather{}, Meta{}, fmt.Errorf("%w: no forecast entries for %s", domain.ErrNotFound, adm4)
	}
	return domain.CurrentWeather{
		Location: forecast.Location,
		Current:  entry,
	}, meta, nil
}
