package upstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bmkg-data-proxy/internal/domain"
)

func testClient() *Client {
	return NewClient(5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Get(t *testing.T) {
	t.Run("success with query params", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "33.26.16.1001", r.URL.Query().Get("adm4"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		body, err := testClient().Get(context.Background(), srv.URL, url.Values{"adm4": {"33.26.16.1001"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("non-2xx is an upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := testClient().Get(context.Background(), srv.URL, nil)
		require.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("unreachable host is an upstream error", func(t *testing.T) {
		c := NewClient(500*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := c.Get(context.Background(), "http://127.0.0.1:1", nil)
		require.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("retries a transient failure once", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		body, err := testClient().Get(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, int32(2), calls.Load())
	})
}
