package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cnct/internal/domain/auth"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func loginRequest(email, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitKeysByUserBeforeIP(t *testing.T) {
	limited := NewLimiter("general", 1, time.Minute, actorOrIPKey).Handler(noContent)
	ctx := WithUser(t.Context(), auth.UserContext{Email: "Ops@Example.com", RoleName: auth.RoleManager})

	first := httptest.NewRequest(http.MethodPut, "/api/v1/pay-periods/2024-11-01/chatters/Cado/percentage", nil).WithContext(ctx)
	first.RemoteAddr = "198.51.100.11:2222"
	if rec := serve(limited, first); rec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil).WithContext(ctx)
	second.RemoteAddr = "198.51.100.12:3333"
	if rec := serve(limited, second); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected the same user on a new ip to be throttled, got %d", rec.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := NewLimiter("general", 1, time.Minute, actorOrIPKey).Handler(noContent)
	if rec := serve(limited, loginRequest("a@example.com", "203.0.113.10:4444")); rec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	rec := serve(limited, loginRequest("b@example.com", "203.0.113.10:5555"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by ip, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected retry metadata, got %v", rec.Header())
	}

	forwarded := loginRequest("c@example.com", "10.0.0.1:1")
	forwarded.Header.Set("X-Forwarded-For", "192.0.2.99, 10.0.0.1")
	if rec := serve(limited, forwarded); rec.Code != http.StatusNoContent {
		t.Fatalf("expected forwarded client to get its own window, got %d", rec.Code)
	}
}

func TestLimiterWindowResetAndPurge(t *testing.T) {
	now := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	l := NewLimiter("test", 1, time.Minute, clientIPKey)
	l.now = func() time.Time { return now }
	h := l.Handler(noContent)

	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
		r.RemoteAddr = "192.0.2.20:1111"
		return r
	}
	serve(h, req())
	rec := serve(h, req())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected throttle inside the window, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Reset") != "60" {
		t.Fatalf("expected reset in 60s, got %s", rec.Header().Get("X-RateLimit-Reset"))
	}

	now = now.Add(time.Minute)
	if purged := l.Purge(); purged != 1 {
		t.Fatalf("expected the elapsed window to be purged, got %d", purged)
	}
	if rec := serve(h, req()); rec.Code != http.StatusNoContent {
		t.Fatalf("expected request after reset to pass, got %d", rec.Code)
	}
}

func TestSensitiveRoutes(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   rateScope
	}{
		{http.MethodPost, "/api/v1/auth/login", scopeLogin},
		{http.MethodGet, "/api/v1/auth/me", scopeNone},
		{http.MethodPost, "/api/v1/entries/import", scopeMutation},
		{http.MethodPost, "/api/v1/entries", scopeNone},
		{http.MethodDelete, "/api/v1/entries/abc", scopeMutation},
		{http.MethodPut, "/api/v1/pay-periods/2024-11-01/chatters/Cado/percentage", scopeMutation},
		{http.MethodGet, "/api/v1/pay-periods/summary", scopeNone},
	}
	for _, tc := range cases {
		if got := classify(httptest.NewRequest(tc.method, tc.path, nil)); got != tc.want {
			t.Fatalf("%s %s: expected scope %d, got %d", tc.method, tc.path, tc.want, got)
		}
	}
}

func TestSensitiveLimitsOnlyApplyToSensitiveRoutes(t *testing.T) {
	limits := NewRateLimits(4, time.Minute)
	limited := limits.Sensitive(noContent)

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/pay-periods/summary", nil)
		req.RemoteAddr = "198.51.100.40:8888"
		if rec := serve(limited, req); rec.Code != http.StatusNoContent {
			t.Fatalf("read request %d should bypass sensitive limits, got %d", i+1, rec.Code)
		}
	}

	ctx := WithUser(t.Context(), auth.UserContext{Email: "ops@example.com", RoleName: auth.RoleManager})
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/pay-periods/2024-11-01/chatters/Cado/percentage", nil).WithContext(ctx)
		req.RemoteAddr = "198.51.100.41:9999"
		rec := serve(limited, req)
		if i < 2 && rec.Code != http.StatusNoContent {
			t.Fatalf("sensitive request %d should pass, got %d", i+1, rec.Code)
		}
		if i == 2 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("third sensitive request should be throttled, got %d", rec.Code)
		}
	}

	if rec := serve(limited, loginRequest("a@example.com", "203.0.113.50:1")); rec.Code != http.StatusNoContent {
		t.Fatalf("first login should pass, got %d", rec.Code)
	}
	if rec := serve(limited, loginRequest("A@example.com", "203.0.113.51:1")); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second login for the same email should be throttled, got %d", rec.Code)
	}
}
