package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/bmkg-data-proxy/internal/api"
	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/config"
	"github.com/couchcryptid/bmkg-data-proxy/internal/gazetteer"
	"github.com/couchcryptid/bmkg-data-proxy/internal/observability"
	"github.com/couchcryptid/bmkg-data-proxy/internal/service"
	"github.com/couchcryptid/bmkg-data-proxy/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cache.New(ctx, cfg.RedisURL, logger)
	if c.UsingFallback() {
		metrics.CacheFallbackActive.Set(1)
	}

	regions := gazetteer.NewIndex()
	if err := regions.Load(cfg.WilayahCSVPath); err != nil {
		logger.Error("failed to load region table", "path", cfg.WilayahCSVPath, "error", err)
		os.Exit(1)
	}
	stats := regions.Stats()
	metrics.GazetteerRegions.Set(float64(stats.Total))
	logger.Info("gazetteer loaded",
		"total", stats.Total,
		"provinces", stats.Provinces,
		"districts", stats.Districts,
		"subdistricts", stats.Subdistricts,
		"villages", stats.Villages,
	)

	client := upstream.NewClient(cfg.UpstreamTimeout, logger)

	quakes := service.NewEarthquakeService(c, client, cfg.EarthquakeBaseURL,
		cfg.TTLEarthquakeLatest, cfg.TTLEarthquakeList, metrics, logger)
	weather := service.NewWeatherService(c, client, cfg.WeatherBaseURL,
		cfg.TTLWeather, metrics, logger)
	nowcast := service.NewNowcastService(c, client, cfg.NowcastBaseURL,
		cfg.TTLNowcast, metrics, logger)

	srv := api.NewServer(cfg.HTTPAddr, quakes, weather, nowcast, regions, c, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
