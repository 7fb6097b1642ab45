package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"cnct/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

// Limiter is a fixed-window request counter keyed by keyFn.
type Limiter struct {
	name   string
	limit  int
	window time.Duration
	keyFn  RateLimitKeyFunc
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*fixedWindow
}

type fixedWindow struct {
	hits  int
	reset time.Time
}

type decision struct {
	allowed   bool
	remaining int
	resetIn   int
}

func NewLimiter(name string, limit int, window time.Duration, keyFn RateLimitKeyFunc) *Limiter {
	if keyFn == nil {
		keyFn = actorOrIPKey
	}
	return &Limiter{
		name:    name,
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		now:     time.Now,
		windows: map[string]*fixedWindow{},
	}
}

func (l *Limiter) take(key string) decision {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	win, ok := l.windows[key]
	if !ok || !now.Before(win.reset) {
		win = &fixedWindow{reset: now.Add(l.window)}
		l.windows[key] = win
	}
	win.hits++
	return decision{
		allowed:   win.hits <= l.limit,
		remaining: max(l.limit-win.hits, 0),
		resetIn:   ceilSeconds(win.reset.Sub(now)),
	}
}

// Purge forgets windows that have already reset.
func (l *Limiter) Purge() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for key, win := range l.windows {
		if !now.Before(win.reset) {
			delete(l.windows, key)
			purged++
		}
	}
	return purged
}

// allow writes the X-RateLimit headers and, when the key is over its limit,
// the 429 response. It reports whether the request may continue.
func (l *Limiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	d := l.take(key)

	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	h.Set("X-RateLimit-Reset", strconv.Itoa(d.resetIn))
	if d.allowed {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(d.resetIn, 1)))
	slog.Warn("rate limit exceeded",
		"limiter", l.name,
		"key", key,
		"method", r.Method,
		"path", r.URL.Path,
		"limit", l.limit,
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.allow(w, r) {
			next.ServeHTTP(w, r)
		}
	})
}

// RateLimits bundles the general limiter with the tighter limiters used for
// login and for mutations that rewrite stored entries.
type RateLimits struct {
	General     *Limiter
	LoginByIP   *Limiter
	LoginByUser *Limiter
	Mutations   *Limiter
}

func NewRateLimits(perWindow int, window time.Duration) *RateLimits {
	loginLimit := max(perWindow/4, 1)
	return &RateLimits{
		General:     NewLimiter("general", perWindow, window, actorOrIPKey),
		LoginByIP:   NewLimiter("login_ip", loginLimit, window, clientIPKey),
		LoginByUser: NewLimiter("login_email", loginLimit, window, loginEmailKey),
		Mutations:   NewLimiter("mutations", max(perWindow/2, 1), window, actorOrIPKey),
	}
}

// Sensitive applies the login and mutation limiters to the routes listed in
// sensitiveRoutes. Other requests pass straight through.
func (rl *RateLimits) Sensitive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch classify(r) {
		case scopeLogin:
			if !rl.LoginByIP.allow(w, r) || !rl.LoginByUser.allow(w, r) {
				return
			}
		case scopeMutation:
			if !rl.Mutations.allow(w, r) {
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimits) Purge() int {
	return rl.General.Purge() + rl.LoginByIP.Purge() + rl.LoginByUser.Purge() + rl.Mutations.Purge()
}

type rateScope int

const (
	scopeNone rateScope = iota
	scopeLogin
	scopeMutation
)

type sensitiveRoute struct {
	method string
	prefix string
	suffix string
	exact  bool
	scope  rateScope
}

var sensitiveRoutes = []sensitiveRoute{
	{method: http.MethodPost, prefix: "/auth/login", exact: true, scope: scopeLogin},
	{method: http.MethodPost, prefix: "/entries/import", exact: true, scope: scopeMutation},
	{method: http.MethodDelete, prefix: "/entries/", scope: scopeMutation},
	{method: http.MethodPut, prefix: "/pay-periods/", suffix: "/percentage", scope: scopeMutation},
}

func classify(r *http.Request) rateScope {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	for _, route := range sensitiveRoutes {
		if r.Method != route.method {
			continue
		}
		if route.exact {
			if path == route.prefix {
				return route.scope
			}
			continue
		}
		if strings.HasPrefix(path, route.prefix) && strings.HasSuffix(path, route.suffix) {
			return route.scope
		}
	}
	return scopeNone
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.Email != "" {
		return "user:" + strings.ToLower(user.Email)
	}
	return clientIPKey(r)
}

func loginEmailKey(r *http.Request) string {
	if email := peekJSONString(r, "email"); email != "" {
		return "email:" + strings.ToLower(email)
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// peekJSONString reads one string field from a JSON body and restores the
// body for the next handler.
func peekJSONString(r *http.Request, field string) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
