package api

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
	"github.com/couchcryptid/bmkg-data-proxy/internal/gazetteer"
	"github.com/couchcryptid/bmkg-data-proxy/internal/service"
)

// defaultSearchLimit and maxSearchLimit bound gazetteer search results.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type handlers struct {
	quakes  *service.EarthquakeService
	weather *service.WeatherService
	nowcast *service.NowcastService
	regions *gazetteer.Index
	cache   *cache.Cache
	logger  *slog.Logger
}

func (h *handlers) earthquakeLatest(c *gin.Context) {
	quake, meta, err := h.quakes.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, meta, quake)
}

func (h *handlers) earthquakeRecent(c *gin.Context) {
	quakes, meta, err := h.quakes.Recent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, meta, quakes, len(quakes))
}

func (h *handlers) earthquakeFelt(c *gin.Context) {
	quakes, meta, err := h.quakes.Felt(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, meta, quakes, len(quakes))
}

func (h *handlers) earthquakeNearby(c *gin.Context) {
	lat, err := requiredFloat(c, "lat")
	if err != nil {
		respondError(c, err)
		return
	}
	lon, err := requiredFloat(c, "lon")
	if err != nil {
		respondError(c, err)
		return
	}
	radius, err := optionalFloat(c, "radius")
	if err != nil {
		respondError(c, err)
		return
	}

	quakes, meta, err := h.quakes.Nearby(c.Request.Context(), lat, lon, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, meta, quakes, len(quakes))
}

func (h *handlers) weatherForecast(c *gin.Context) {
	forecast, meta, err := h.weather.Forecast(c.Request.Context(), c.Param("adm4"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, meta, forecast)
}

func (h *handlers) weatherCurrent(c *gin.Context) {
	current, meta, err := h.weather.Current(c.Request.Context(), c.Param("adm4"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, meta, current)
}

func (h *handlers) nowcastActive(c *gin.Context) {
	alerts, meta, err := h.nowcast.ActiveAlerts(c.Request.Context(), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, meta, alerts, len(alerts))
}

func (h *handlers) nowcastCheck(c *gin.Context) {
	result, meta, err := h.nowcast.CheckLocation(c.Request.Context(), c.Query("location"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, meta, result)
}

func (h *handlers) nowcastDetail(c *gin.Context) {
	warning, region, meta, err := h.nowcast.Detail(c.Request.Context(), c.Param("code"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, meta, gin.H{"warning": warning, "region": region})
}

func (h *handlers) wilayahProvinces(c *gin.Context) {
	provinces := h.regions.Provinces()
	count := len(provinces)
	respondStatic(c, provinces, &count)
}

func (h *handlers) wilayahDistricts(c *gin.Context) {
	h.wilayahChildren(c, h.regions.Districts)
}

func (h *handlers) wilayahSubdistricts(c *gin.Context) {
	h.wilayahChildren(c, h.regions.Subdistricts)
}

func (h *handlers) wilayahVillages(c *gin.Context) {
	h.wilayahChildren(c, h.regions.Villages)
}

func (h *handlers) wilayahChildren(c *gin.Context, children func(string) []gazetteer.Region) {
	parent := c.Param("code")
	if _, err := h.regions.ByCode(parent); err != nil {
		respondError(c, err)
		return
	}
	regions := children(parent)
	count := len(regions)
	respondStatic(c, regions, &count)
}

func (h *handlers) wilayahSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, fmt.Errorf("%w: query parameter q is required", domain.ErrValidation))
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, fmt.Errorf("%w: limit %q must be a positive integer", domain.ErrValidation, raw))
			return
		}
		if n > maxSearchLimit {
			n = maxSearchLimit
		}
		limit = n
	}

	results := h.regions.Search(query, limit)
	count := len(results)
	respondStatic(c, results, &count)
}

func (h *handlers) wilayahByCode(c *gin.Context) {
	result, err := h.regions.Describe(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatic(c, result, nil)
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"cache": gin.H{
			"healthy":  h.cache.Healthy(c.Request.Context()),
			"fallback": h.cache.UsingFallback(),
		},
	})
}

func (h *handlers) readyz(c *gin.Context) {
	if h.regions.Stats().Total == 0 {
		c.JSON(503, gin.H{"status": "not ready", "reason": "gazetteer not loaded"})
		return
	}
	c.JSON(200, gin.H{"status": "ready"})
}

func requiredFloat(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: query parameter %s is required", domain.ErrValidation, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", domain.ErrValidation, name, raw)
	}
	return v, nil
}

func optionalFloat(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", domain.ErrValidation, name, raw)
	}
	return v, nil
}
