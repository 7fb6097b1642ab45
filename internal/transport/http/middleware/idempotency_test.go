package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func TestIdempotencyReplaysResponse(t *testing.T) {
	calls := 0
	handler := Idempotency(NewIdempotencyStore(time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", bytes.NewBufferString(body))
		req.Header.Set(IdempotencyHeader, "form-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"a":1}`)
	second := send(`{"a":1}`)
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed response, got %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatal("expected replay header")
	}

	conflict := send(`{"a":2}`)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected conflict for a different payload, got %d", conflict.Code)
	}
}

func TestIdempotencyIgnoresRequestsWithoutKey(t *testing.T) {
	calls := 0
	handler := Idempotency(NewIdempotencyStore(time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/entries", bytes.NewBufferString(`{}`)))
	}
	if calls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", calls)
	}
}

func TestIdempotencyPurgeDropsExpired(t *testing.T) {
	store := NewIdempotencyStore(time.Minute)
	now := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	store.save("/api/v1/entries|old", storedResponse{status: http.StatusCreated})
	now = now.Add(30 * time.Second)
	store.save("/api/v1/entries|new", storedResponse{status: http.StatusCreated})

	now = now.Add(45 * time.Second)
	if purged := store.Purge(); purged != 1 {
		t.Fatalf("expected one expired response, purged %d", purged)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one response left, got %d", store.Len())
	}
	if _, ok := store.lookup("/api/v1/entries|old"); ok {
		t.Fatal("expired key should be gone")
	}
}

func TestIdempotencyRunsConcurrentDuplicatesOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	handler := Idempotency(NewIdempotencyStore(time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))

	const callers = 2
	recs := make([]*httptest.ResponseRecorder, callers)
	var wg sync.WaitGroup
	for i := range recs {
		recs[i] = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", bytes.NewBufferString(`{"a":1}`))
		req.Header.Set(IdempotencyHeader, "form-1")
		wg.Add(1)
		go func(rec *httptest.ResponseRecorder, req *http.Request) {
			defer wg.Done()
			handler.ServeHTTP(rec, req)
		}(recs[i], req)
	}
	// Let both requests reach the middleware before the first one finishes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected handler to run once, ran %d times", got)
	}
	replayed := 0
	for _, rec := range recs {
		if rec.Code != http.StatusCreated || rec.Body.String() != `{"id":"1"}` {
			t.Fatalf("expected shared response, got %d %s", rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Fatalf("expected content type to be copied, got %q", rec.Header().Get("Content-Type"))
		}
		if rec.Header().Get("Idempotent-Replayed") == "true" {
			replayed++
		}
	}
	if replayed != callers-1 {
		t.Fatalf("expected %d replayed responses, got %d", callers-1, replayed)
	}
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	calls := 0
	handler := Idempotency(NewIdempotencyStore(time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", bytes.NewBufferString(`{}`))
		req.Header.Set(IdempotencyHeader, "form-2")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected handler status, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("expected failed requests to be retried, got %d calls", calls)
	}
}

func TestIdempotencyRejectsOversizedStreamedBody(t *testing.T) {
	calls := 0
	handler := BodyLimit(16)(Idempotency(NewIdempotencyStore(time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	req.Header.Set(IdempotencyHeader, "form-3")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payload_too_large") {
		t.Fatalf("expected payload_too_large code, got %s", rec.Body.String())
	}
	if calls != 0 {
		t.Fatal("handler must not run for an oversized body")
	}
}
