package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
	"github.com/couchcryptid/bmkg-data-proxy/internal/observability"
)

// DefaultAlertLang applies when a nowcast query omits the language.
const DefaultAlertLang = "id"

// NowcastService serves the severe-weather alert feeds through the cache.
type NowcastService struct {
	cache   *cache.Cache
	client  Fetcher
	baseURL string
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewNowcastService wires the alert operations.
func NewNowcastService(c *cache.Cache, client Fetcher, baseURL string, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *NowcastService {
	return &NowcastService{
		cache:   c,
		client:  client,
		baseURL: baseURL,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// paramsKey hashes a parameter set into the short cache-key suffix:
// first 8 hex chars of the md5 of the key-sorted JSON encoding.
func paramsKey(params map[string]string) string {
	data, _ := json.Marshal(params)
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])[:8]
}

func normalizeLang(lang string) (string, error) {
	lang = strings.TrimSpace(strings.ToLower(lang))
	if lang == "" {
		lang = DefaultAlertLang
	}
	if lang != "id" && lang != "en" {
		return "", fmt.Errorf("%w: lang %q must be id or en", domain.ErrValidation, lang)
	}
	return lang, nil
}

// ActiveAlerts returns the current RSS alert summaries for a language.
func (s *NowcastService) ActiveAlerts(ctx context.Context, lang string) ([]domain.ActiveAlert, Meta, error) {
	lang, err := normalizeLang(lang)
	if err != nil {
		return nil, Meta{}, err
	}

	key := "nowcast:rss:" + paramsKey(map[string]string{"lang": lang})
	payload, meta, err := readThrough(ctx, s.cache, s.metrics, s.logger, "nowcast", key, s.ttl,
		func(ctx context.Context) ([]byte, error) {
			return s.client.Get(ctx, s.baseURL+"/"+lang, nil)
		},
		func(body []byte) (string, error) {
			alerts, err := domain.ParseAlertFeed(body)
			if err != nil {
				return "", err
			}
			serialized, err := json.Marshal(alerts)
			if err != nil {
				return "", fmt.Errorf("%w: serialize alerts: %v", domain.ErrParse, err)
			}
			return string(serialized), nil
		})
	if err != nil {
		return nil, Meta{}, err
	}

	var alerts []domain.ActiveAlert
	if err := json.Unmarshal([]byte(payload), &alerts); err != nil {
		return nil, Meta{}, fmt.Errorf("%w: cached alerts: %v", domain.ErrParse, err)
	}
	return alerts, meta, nil
}

// Detail returns the CAP warning for an alert code, with the best-effort
// region name derived from it.
func (s *NowcastService) Detail(ctx context.Context, code, lang string) (domain.Warning, string, Meta, error) {
	lang, err := normalizeLang(lang)
	if err != nil {
		return domain.Warning{}, "", Meta{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" || strings.ContainsAny(code, "/\\") {
		return domain.Warning{}, "", Meta{}, fmt.Errorf("%w: invalid alert code %q", domain.ErrValidation, code)
	}

	key := "nowcast:cap:" + paramsKey(map[string]string{"code": code, "lang": lang})
	payload, meta, err := readThrough(ctx, s.cache, s.metrics, s.logger, "nowcast", key, s.ttl,
		func(ctx context.Context) ([]byte, error) {
			return s.client.Get(ctx, s.baseURL+"/"+lang+"/"+code+"_alert.xml", nil)
		},
		func(body []byte) (string, error) {
			warning, err := domain.ParseCAP(body)
			if err != nil {
				return "", err
			}
			serialized, err := json.Marshal(warning)
			if err != nil {
				return "", fmt.Errorf("%w: serialize warning: %v", domain.ErrParse, err)
			}
			return string(serialized), nil
		})
	if err != nil {
		return domain.Warning{}, "", Meta{}, err
	}

	var warning domain.Warning
	if err := json.Unmarshal([]byte(payload), &warning); err != nil {
		return domain.Warning{}, "", Meta{}, fmt.Errorf("%w: cached warning: %v", domain.ErrParse, err)
	}
	return warning, domain.RegionNameFromWarning(warning), meta, nil
}

// CheckLocation reports which active warnings mention a location by
// name. Every active alert's detail document is consulted; alerts whose
// detail cannot be fetched or parsed are skipped rather than failing the
// whole check.
func (s *NowcastService) CheckLocation(ctx context.Context, location, lang string) (domain.LocationCheckResult, Meta, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.LocationCheckResult{}, Meta{}, fmt.Errorf("%w: location must not be empty", domain.ErrValidation)
	}

	alerts, meta, err := s.ActiveAlerts(ctx, lang)
	if err != nil {
		return domain.LocationCheckResult{}, Meta{}, err
	}

	needle := strings.ToLower(location)
	result := domain.LocationCheckResult{Location: location}
	for _, alert := range alerts {
		warning, _, _, err := s.Detail(ctx, alert.Code, lang)
		if err != nil {
			s.logger.Warn("skipping alert during location check", "code", alert.Code, "error", err)
			continue
		}
		if warningMentions(warning, needle) {
			result.Warnings = append(result.Warnings, warning)
		}
	}
	result.HasWarnings = len(result.Warnings) > 0
	return result, meta, nil
}

// warningMentions matches the lowercased needle against the warning's
// description and headline, the fields that name the kecamatan-level
// areas a nowcast covers.
func warningMentions(warning domain.Warning, needle string) bool {
	return strings.Contains(strings.ToLower(warning.Description), needle) ||
		strings.Contains(strings.ToLower(warning.Headline), needle)
}
