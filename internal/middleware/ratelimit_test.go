package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newRateLimitedHandler(t *testing.T, mr *miniredis.Miniredis, limit int) http.Handler {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "catalog_rate_limit",
	}

	return RateLimitMiddleware(redisClient, config, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func browse(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/catalog?page=0", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests beyond the limit are blocked with 429", prop.ForAll(
		func(limit int, excess int) bool {
			mr := miniredis.RunT(t)
			handler := newRateLimitedHandler(t, mr, limit)

			successCount, blockedCount := 0, 0
			for i := 0; i < limit+excess; i++ {
				switch browse(handler, "192.168.1.100:40000").Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			return successCount == limit && blockedCount == excess
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_PortsShareOneBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimitedHandler(t, mr, 2)

	browse(handler, "10.0.0.1:1111")
	browse(handler, "10.0.0.1:2222")

	w := browse(handler, "10.0.0.1:3333")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("blocked response should carry Retry-After")
	}

	if w := browse(handler, "10.0.0.2:1111"); w.Code != http.StatusOK {
		t.Fatalf("another host should not be limited, got %d", w.Code)
	}
}

func TestRateLimit_HeadersAreSet(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimitedHandler(t, mr, 5)

	w := browse(handler, "10.0.0.1:1111")

	if got := w.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Errorf("X-RateLimit-Limit = %q, want 5", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Errorf("X-RateLimit-Remaining = %q, want 4", got)
	}
	if ttl := mr.TTL("catalog_rate_limit:10.0.0.1"); ttl != time.Minute {
		t.Errorf("bucket TTL = %s, want 1m", ttl)
	}
}

func TestRateLimit_RedisFailureLetsRequestsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	handler := newRateLimitedHandler(t, mr, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		if w := browse(handler, "10.0.0.1:1111"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 when redis is down, got %d", i, w.Code)
		}
	}
}

func TestClientAddress(t *testing.T) {
	tests := map[string]string{
		"10.0.0.1:1234": "10.0.0.1",
		"[::1]:8080":    "::1",
		"10.0.0.1":      "10.0.0.1",
	}
	for in, want := range tests {
		if got := clientAddress(in); got != want {
			t.Errorf("clientAddress(%q) = %q, want %q", in, got, want)
		}
	}
}
