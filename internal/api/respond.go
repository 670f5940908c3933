package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
	"github.com/couchcryptid/bmkg-data-proxy/internal/service"
)

// attribution credits the data source on every successful response, a
// condition of the upstream's open-data terms.
const attribution = "BMKG (Badan Meteorologi, Klimatologi, dan Geofisika)"

type responseMeta struct {
	FetchedAt string `json:"fetched_at"`
	CacheTTL  *int   `json:"cache_ttl,omitempty"`
	Count     *int   `json:"count,omitempty"`
}

type envelope struct {
	Data        any          `json:"data"`
	Meta        responseMeta `json:"meta"`
	Attribution string       `json:"attribution"`
}

// respond writes the standard data/meta/attribution envelope for a
// cache-backed payload.
func respond(c *gin.Context, meta service.Meta, data any) {
	ttl := meta.CacheTTL
	c.JSON(http.StatusOK, envelope{
		Data:        data,
		Meta:        responseMeta{FetchedAt: meta.FetchedAt.Format(time.RFC3339), CacheTTL: &ttl},
		Attribution: attribution,
	})
}

// respondList is respond with an element count in the metadata.
func respondList(c *gin.Context, meta service.Meta, data any, count int) {
	ttl := meta.CacheTTL
	c.JSON(http.StatusOK, envelope{
		Data:        data,
		Meta:        responseMeta{FetchedAt: meta.FetchedAt.Format(time.RFC3339), CacheTTL: &ttl, Count: &count},
		Attribution: attribution,
	})
}

// respondStatic writes the envelope for in-memory data that never goes
// stale, so carries no TTL.
func respondStatic(c *gin.Context, data any, count *int) {
	c.JSON(http.StatusOK, envelope{
		Data:        data,
		Meta:        responseMeta{FetchedAt: domain.Now().Format(time.RFC3339), Count: count},
		Attribution: attribution,
	})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrParse):
		status, code = http.StatusBadGateway, "parse_error"
	case errors.Is(err, domain.ErrUpstream):
		status, code = http.StatusBadGateway, "upstream_error"
	}
	c.JSON(status, errorBody{Error: code, Message: err.Error(), Status: status})
}
