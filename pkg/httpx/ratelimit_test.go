package httpx_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/moneymanager/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(remote string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	return req
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"extracts from RemoteAddr", nil, "192.168.1.1"},
		{"ignores X-Forwarded-For from an untrusted peer", map[string]string{"X-Forwarded-For": "203.0.113.1"}, "192.168.1.1"},
		{"ignores X-Real-IP from an untrusted peer", map[string]string{"X-Real-IP": "203.0.113.2"}, "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestFrom("192.168.1.1:12345")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestClientIP(t *testing.T) {
	trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.1 ", ""})
	require.NoError(t, err)
	require.Len(t, trusted, 2)

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted peer keeps its own address", "198.51.100.7:1", map[string]string{"X-Forwarded-For": "203.0.113.1"}, "198.51.100.7"},
		{"trusted peer forwards the client", "192.168.1.1:1", map[string]string{"X-Forwarded-For": "203.0.113.1"}, "203.0.113.1"},
		{"client-supplied hops left of the proxy are skipped", "10.1.2.3:1", map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.1, 10.9.9.9"}, "203.0.113.1"},
		{"all hops trusted returns the first", "10.1.2.3:1", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "10.0.0.1"},
		{"X-Real-IP when X-Forwarded-For absent", "10.1.2.3:1", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
		{"trusted peer without headers", "10.1.2.3:1", nil, "10.1.2.3"},
		{"ipv4-mapped peer", "[::ffff:10.1.2.3]:1", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestFrom(tt.remote)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.ClientIP(req, trusted))
		})
	}

	t.Run("rejects malformed entries", func(t *testing.T) {
		_, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/33"})
		require.Error(t, err)
		_, err = httpx.ParseTrustedProxies([]string{"proxy.internal"})
		require.Error(t, err)
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	extractor := httpx.CompositeKeyExtractor(":", httpx.ProfileKeyExtractor, httpx.IPKeyExtractor)

	t.Run("anonymous falls back to ip", func(t *testing.T) {
		require.Equal(t, "192.168.1.1", extractor(requestFrom("192.168.1.1:12345")))
	})

	t.Run("bound profile is prefixed", func(t *testing.T) {
		req := requestFrom("192.168.1.1:12345")
		ctx := httpx.WithPrincipal(req.Context(), httpx.Principal{ProfileID: "p1", Email: "a@b.c"})
		require.Equal(t, "p1:192.168.1.1", extractor(req.WithContext(ctx)))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		}, httpx.IPKeyExtractor)(okHandler)

		for i := range 3 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}

		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		})(okHandler)

		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.1:12345"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, requestFrom("192.168.1.2:12345"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rotating X-Forwarded-For does not reset the bucket", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 2,
			Window:            time.Minute,
			Burst:             2,
		})(okHandler)

		codes := make([]int, 0, 4)
		for i := range 4 {
			req := requestFrom("198.51.100.7:4000")
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	})

	t.Run("profiles sharing an ip get their own bucket", func(t *testing.T) {
		limited := httpx.RateLimitByProfile(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		})(okHandler)

		as := func(id string) *http.Request {
			req := requestFrom("10.0.0.1:1000")
			return req.WithContext(httpx.WithPrincipal(context.Background(), httpx.Principal{ProfileID: id}))
		}

		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, as("p1"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, as("p2"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		limited.ServeHTTP(rec, as("p1"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "42")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_TEST_BURST", "-1")

	cfg := httpx.ParseRateLimitFromEnv("TEST", httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 7})
	require.Equal(t, 42, cfg.RequestsPerWindow)
	require.Equal(t, 30*time.Second, cfg.Window)
	require.Equal(t, 7, cfg.Burst, "invalid burst keeps the default")
}

func TestRateLimitProfiles(t *testing.T) {
	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
	require.Less(t, httpx.LenientLimit.RequestsPerWindow, httpx.PublicLimit.RequestsPerWindow)
}
