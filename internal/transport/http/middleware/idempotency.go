package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cnct/internal/transport/http/api"
)

const IdempotencyHeader = "Idempotency-Key"

type storedResponse struct {
	requestHash string
	status      int
	header      http.Header
	body        []byte
	expires     time.Time
}

// IdempotencyStore remembers successful POST responses per key for ttl so a
// resubmitted entry form does not append a second row. Concurrent requests
// sharing a key wait for the first one and receive its response.
type IdempotencyStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	entries  map[string]storedResponse
	inflight singleflight.Group
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{ttl: ttl, now: time.Now, entries: map[string]storedResponse{}}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) lookup(key string) (storedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.entries[key]
	if ok && s.now().After(resp.expires) {
		delete(s.entries, key)
		return storedResponse{}, false
	}
	return resp, ok
}

// Purge drops expired responses and returns how many were removed.
func (s *IdempotencyStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	purged := 0
	for k, v := range s.entries {
		if now.After(v.expires) {
			delete(s.entries, k)
			purged++
		}
	}
	return purged
}

func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *IdempotencyStore) save(key string, resp storedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp.expires = s.now().Add(s.ttl)
	s.entries[key] = resp
}

// captureWriter holds the handler's response until every caller sharing the
// key can be answered from it.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
	wrote  bool
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: http.Header{}, status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header { return c.header }

func (c *captureWriter) WriteHeader(code int) {
	if c.wrote {
		return
	}
	c.wrote = true
	c.status = code
}

func (c *captureWriter) Write(p []byte) (int, error) {
	c.wrote = true
	return c.buf.Write(p)
}

func writeStored(w http.ResponseWriter, resp storedResponse, replayed bool) {
	for k, v := range resp.header {
		w.Header()[k] = append([]string(nil), v...)
	}
	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

func Idempotency(store *IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if store == nil || key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", GetRequestID(r.Context()))
					return
				}
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", GetRequestID(r.Context()))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			hash := RequestHash(raw)
			storeKey := r.URL.Path + "|" + key

			ran := false
			v, _, _ := store.inflight.Do(storeKey, func() (any, error) {
				if prev, ok := store.lookup(storeKey); ok {
					return prev, nil
				}
				ran = true
				rec := newCaptureWriter()
				next.ServeHTTP(rec, r)
				resp := storedResponse{
					requestHash: hash,
					status:      rec.status,
					header:      rec.header.Clone(),
					body:        bytes.Clone(rec.buf.Bytes()),
				}
				if rec.status < http.StatusBadRequest {
					store.save(storeKey, resp)
				}
				return resp, nil
			})
			resp := v.(storedResponse)
			if resp.requestHash != hash {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", GetRequestID(r.Context()))
				return
			}
			writeStored(w, resp, !ran)
		})
	}
}
