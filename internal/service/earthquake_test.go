package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmkg-data-proxy/internal/cache"
	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
	"github.com/couchcryptid/bmkg-data-proxy/internal/observability"
	"github.com/couchcryptid/bmkg-data-proxy/internal/upstream"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCache(clock clockwork.Clock) *cache.Cache {
	return cache.NewWithStore(cache.NewMemoryStoreWithClock(clock), true, testLogger())
}

func testFetcher() Fetcher {
	return upstream.NewClient(5*time.Second, testLogger())
}

const latestFeed = `{
  "Infogempa": {
    "gempa": {
      "Tanggal": "16 Feb 2026",
      "Jam": "13:15:30 WIB",
      "Lintang": "6.89 LS",
      "Bujur": "109.67 BT",
      "Magnitude": "5.4",
      "Kedalaman": "10 km",
      "Wilayah": "Laut Jawa",
      "Potensi": "Tidak berpotensi tsunami"
    }
  }
}`

const recentFeed = `{
  "Infogempa": {
    "gempa": [
      {
        "Tanggal": "16 Feb 2026",
        "Jam": "13:15:30 WIB",
        "Lintang": "6.89 LS",
        "Bujur": "109.67 BT",
        "Magnitude": "5.4",
        "Kedalaman": "10 km",
        "Wilayah": "Laut Jawa"
      },
      {
        "Tanggal": "15 Feb 2026",
        "Jam": "02:00:00 WIB",
        "Lintang": "3.30 LU",
        "Bujur": "98.00 BT",
        "Magnitude": "6.0",
        "Kedalaman": "25 km",
        "Wilayah": "Sumatera Utara"
      }
    ]
  }
}`

const feltFeed = `{
  "Infogempa": {
    "gempa": [
      {
        "Tanggal": "16 Feb 2026",
        "Jam": "13:15:30 WIB",
        "Lintang": "6.89 LS",
        "Bujur": "109.67 BT",
        "Magnitude": "5.4",
        "Kedalaman": "10 km",
        "Wilayah": "Laut Jawa",
        "Dirasakan": "III Pekalongan"
      },
      {
        "Tanggal": "14 Feb 2026",
        "Jam": "10:00:00 WITA",
        "Lintang": "6.95 LS",
        "Bujur": "109.60 BT",
        "Magnitude": "4.1",
        "Kedalaman": "8 km",
        "Wilayah": "Pekalongan"
      }
    ]
  }
}`

func quakeServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/autogempa.json":
			_, _ = w.Write([]byte(latestFeed))
		case "/gempaterkini.json":
			_, _ = w.Write([]byte(recentFeed))
		case "/gempadirasakan.json":
			_, _ = w.Write([]byte(feltFeed))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestEarthquakeService_Latest(t *testing.T) {
	ctx := context.Background()

	t.Run("miss fetches and reports the configured TTL", func(t *testing.T) {
		var calls atomic.Int32
		srv := quakeServer(t, &calls)
		defer srv.Close()

		svc := NewEarthquakeService(testCache(clockwork.NewFakeClock()), testFetcher(), srv.URL,
			60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

		quake, meta, err := svc.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 16, 6, 15, 30, 0, time.UTC), quake.OccurredAt)
		assert.InDelta(t, -6.89, quake.Lat, 1e-9)
		assert.InDelta(t, 109.67, quake.Lon, 1e-9)
		assert.InDelta(t, 5.4, quake.Magnitude, 1e-9)
		assert.Equal(t, "Laut Jawa", quake.Region)
		assert.Equal(t, 60, meta.CacheTTL)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("hit serves from cache with the remaining TTL", func(t *testing.T) {
		var calls atomic.Int32
		srv := quakeServer(t, &calls)
		defer srv.Close()

		clock := clockwork.NewFakeClock()
		svc := NewEarthquakeService(testCache(clock), testFetcher(), srv.URL,
			60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

		first, _, err := svc.Latest(ctx)
		require.NoError(t, err)

		clock.Advance(20 * time.Second)

		second, meta, err := svc.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 40, meta.CacheTTL)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		svc := NewEarthquakeService(testCache(clockwork.NewFakeClock()), testFetcher(), srv.URL,
			60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

		_, _, err := svc.Latest(ctx)
		require.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("empty feed is a parse failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"Infogempa":{}}`))
		}))
		defer srv.Close()

		svc := NewEarthquakeService(testCache(clockwork.NewFakeClock()), testFetcher(), srv.URL,
			60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

		_, _, err := svc.Latest(ctx)
		require.ErrorIs(t, err, domain.ErrParse)
	})
}

func TestEarthquakeService_Lists(t *testing.T) {
	ctx := context.Background()

	var calls atomic.Int32
	srv := quakeServer(t, &calls)
	defer srv.Close()

	svc := NewEarthquakeService(testCache(clockwork.NewFakeClock()), testFetcher(), srv.URL,
		60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

	recent, meta, err := svc.Recent(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, 300, meta.CacheTTL)

	felt, _, err := svc.Felt(ctx)
	require.NoError(t, err)
	require.Len(t, felt, 2)
	require.NotNil(t, felt[0].FeltReport)
	assert.Equal(t, "III Pekalongan", *felt[0].FeltReport)
}

func TestEarthquakeService_Nearby(t *testing.T) {
	ctx := context.Background()

	t.Run("merges feeds, dedupes, sorts by distance", func(t *testing.T) {
		var calls atomic.Int32
		srv := quakeServer(t, &calls)
		defer srv.Close()

		svc := NewEarthquakeService(testCache(clockwork.NewFakeClock()), testFetcher(), srv.URL,
			60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

		// Near the Laut Jawa event; the Sumatera event is ~1200 km away.
		nearby, _, err := svc.Nearby(ctx, -6.9, 109.7, 200)
		require.NoError(t, err)

		// The M5.4 event appears in both feeds but is counted once.
		require.Len(t, nearby, 2)
		assert.InDelta(t, 5.4, nearby[0].Magnitude, 1e-9)
		assert.InDelta(t, 4.1, nearby[1].Magnitude, 1e-9)
		assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)
	})

	t.Run("zero radius applies the default", func(t *testing.T) {
		var calls atomic.Int32
		srv := quakeServer(t, &calls)
		defer srv.Close()

		svc := NewEarthquakeService(testCache(clockwork.NewFakeClock()), testFetcher(), srv.URL,
			60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

		nearby, _, err := svc.Nearby(ctx, -6.9, 109.7, 0)
		require.NoError(t, err)
		assert.Len(t, nearby, 2)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewEarthquakeService(testCache(clockwork.NewFakeClock()), testFetcher(), "http://unused",
			60*time.Second, 300*time.Second, observability.NewMetricsForTesting(), testLogger())

		tests := []struct {
			name             string
			lat, lon, radius float64
		}{
			{"latitude too high", 91, 109, 200},
			{"latitude too low", -91, 109, 200},
			{"longitude too high", -6.9, 181, 200},
			{"longitude too low", -6.9, -181, 200},
			{"negative radius", -6.9, 109.7, -1},
			{"radius too large", -6.9, 109.7, 5001},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, _, err := svc.Nearby(ctx, tc.lat, tc.lon, tc.radius)
				require.ErrorIs(t, err, domain.ErrValidation)
			})
		}
	})
}
