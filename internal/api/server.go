// Package api exposes the proxy's HTTP surface.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/gazetteer"
	"github.com/couchcryptid/bmkg-data-proxy/internal/service"
)

// Server wraps the HTTP listener serving the proxy routes.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router and binds it to addr.
func NewServer(
	addr string,
	quakes *service.EarthquakeService,
	weather *service.WeatherService,
	nowcast *service.NowcastService,
	regions *gazetteer.Index,
	c *cache.Cache,
	logger *slog.Logger,
) *Server {
	router := NewRouter(quakes, weather, nowcast, regions, c, logger)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter assembles the gin engine with every route. Exposed separately
// so tests can drive the routes without a listener.
func NewRouter(
	quakes *service.EarthquakeService,
	weather *service.WeatherService,
	nowcast *service.NowcastService,
	regions *gazetteer.Index,
	c *cache.Cache,
	logger *slog.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	h := &handlers{
		quakes:  quakes,
		weather: weather,
		nowcast: nowcast,
		regions: regions,
		cache:   c,
		logger:  logger,
	}

	router.GET("/healthz", h.healthz)
	router.GET("/readyz", h.readyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		eq := v1.Group("/earthquake")
		eq.GET("/latest", h.earthquakeLatest)
		eq.GET("/recent", h.earthquakeRecent)
		eq.GET("/felt", h.earthquakeFelt)
		eq.GET("/nearby", h.earthquakeNearby)

		w := v1.Group("/weather")
		w.GET("/:adm4", h.weatherForecast)
		w.GET("/:adm4/current", h.weatherCurrent)

		nc := v1.Group("/nowcast")
		nc.GET("", h.nowcastActive)
		nc.GET("/check", h.nowcastCheck)
		nc.GET("/:code", h.nowcastDetail)

		wil := v1.Group("/wilayah")
		wil.GET("/provinces", h.wilayahProvinces)
		wil.GET("/districts/:code", h.wilayahDistricts)
		wil.GET("/subdistricts/:code", h.wilayahSubdistricts)
		wil.GET("/villages/:code", h.wilayahVillages)
		wil.GET("/search", h.wilayahSearch)
		wil.GET("/:code", h.wilayahByCode)
	}

	return router
}

// requestLogger emits one structured line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Start begins serving. Blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
