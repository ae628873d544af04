package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func serve(handler http.Handler, remoteAddr, forwarded string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/extract/text", nil)
	req.RemoteAddr = remoteAddr
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	handler.ServeHTTP(rec, req)
	return rec
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{
			name:       "forwarded header ignored",
			header:     "203.0.113.1",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "remote host without port",
			remoteAddr: "198.51.100.10",
			want:       "198.51.100.10",
		},
		{
			name:       "ipv6 remote",
			remoteAddr: net.JoinHostPort("2001:db8::2", "443"),
			want:       "2001:db8::2",
		},
		{
			name:       "unparseable remote kept verbatim",
			remoteAddr: "pipe",
			want:       "pipe",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set("X-Forwarded-For", tc.header)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimitRejectsWithEnvelope(t *testing.T) {
	clock := newFakeClock()
	handler := rateLimit(2, time.Minute, clock.Now)(okHandler())

	for i := 0; i < 2; i++ {
		if rec := serve(handler, "198.51.100.10:1234", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	clock.Advance(20 * time.Second)
	rec := serve(handler, "198.51.100.10:4321", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "41" {
		t.Fatalf("Retry-After = %q, want 41", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "rate_limited" || body.Error.Message == "" {
		t.Fatalf("error = %+v, want rate_limited with message", body.Error)
	}

	if rec := serve(handler, "203.0.113.7:1234", ""); rec.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", rec.Code)
	}

	clock.Advance(41 * time.Second)
	if rec := serve(handler, "198.51.100.10:1234", ""); rec.Code != http.StatusOK {
		t.Fatalf("status after window = %d, want 200", rec.Code)
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	handler := rateLimit(1, time.Minute, newFakeClock().Now)(okHandler())

	if rec := serve(handler, "198.51.100.10:1234", "203.0.113.1"); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}
	if rec := serve(handler, "198.51.100.10:1234", "203.0.113.2"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status with rotated X-Forwarded-For = %d, want 429", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, time.Minute)(okHandler())
	for i := 0; i < 5; i++ {
		if rec := serve(handler, "198.51.100.10:1234", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestRateLimiterSweepsExpiredBuckets(t *testing.T) {
	clock := newFakeClock()
	limiter := newRateLimiter(5, time.Minute, clock.Now)

	limiter.allow("198.51.100.10")
	limiter.allow("203.0.113.7")
	if len(limiter.buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(limiter.buckets))
	}

	clock.Advance(2 * time.Minute)
	if ok, _ := limiter.allow("192.0.2.1"); !ok {
		t.Fatal("fresh client should be allowed")
	}
	if len(limiter.buckets) != 1 {
		t.Fatalf("buckets after sweep = %d, want 1", len(limiter.buckets))
	}
	if _, ok := limiter.buckets["192.0.2.1"]; !ok {
		t.Fatal("current client bucket missing after sweep")
	}
}
