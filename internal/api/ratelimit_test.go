package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fyreone/fyreone/internal/log"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	rl := newRateLimiter(1.0, 3)

	for i := range 3 {
		if !rl.allow("203.0.113.1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if rl.allow("203.0.113.1") {
		t.Error("request allowed past burst")
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := newRateLimiter(1.0, 1)

	if !rl.allow("203.0.113.1") {
		t.Fatal("first IP denied")
	}
	if rl.allow("203.0.113.1") {
		t.Fatal("first IP allowed past burst")
	}
	// A different IP has its own bucket.
	if !rl.allow("203.0.113.2") {
		t.Error("second IP denied")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := newRateLimiter(1.0, 1)
	handler := rateLimitMiddleware(rl, false, log.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/ask", nil)
	req.RemoteAddr = "203.0.113.1:51000"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 missing Retry-After")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.5:44321",
			want:       "203.0.113.5",
		},
		{
			name:       "real ip trusted",
			remoteAddr: "10.0.0.1:80",
			realIP:     "198.51.100.7",
			trustProxy: true,
			want:       "198.51.100.7",
		},
		{
			name:       "real ip ignored when untrusted",
			remoteAddr: "10.0.0.1:80",
			realIP:     "198.51.100.7",
			trustProxy: false,
			want:       "10.0.0.1",
		},
		{
			name:       "forwarded first entry",
			remoteAddr: "10.0.0.1:80",
			forwarded:  "198.51.100.8, 10.0.0.2, 10.0.0.3",
			trustProxy: true,
			want:       "198.51.100.8",
		},
		{
			name:       "real ip wins over forwarded",
			remoteAddr: "10.0.0.1:80",
			realIP:     "198.51.100.7",
			forwarded:  "198.51.100.8",
			trustProxy: true,
			want:       "198.51.100.7",
		},
		{
			name:       "invalid header falls back to remote addr",
			remoteAddr: "10.0.0.1:80",
			realIP:     "not-an-ip",
			forwarded:  "also-garbage",
			trustProxy: true,
			want:       "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := clientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractClientInfo(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/signup", nil)
	r.RemoteAddr = "203.0.113.5:44321"
	r.Header.Set("User-Agent", "Mozilla/5.0")
	r.Header.Set("Referer", "https://fyreone.example.com/pricing")

	info := extractClientInfo(r, false)
	if info.IP != "203.0.113.5" {
		t.Errorf("IP = %q", info.IP)
	}
	if info.UserAgent != "Mozilla/5.0" {
		t.Errorf("UserAgent = %q", info.UserAgent)
	}
	if info.Referer != "https://fyreone.example.com/pricing" {
		t.Errorf("Referer = %q", info.Referer)
	}
}

func TestExtractClientInfo_Defaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/signup", nil)
	r.Header.Del("User-Agent")

	info := extractClientInfo(r, false)
	if info.UserAgent != "unknown" {
		t.Errorf("UserAgent = %q, want unknown", info.UserAgent)
	}
	if info.Referer != "" {
		t.Errorf("Referer = %q, want empty", info.Referer)
	}
}
