package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cnct/internal/app/server"
	"cnct/internal/domain/auth"
	"cnct/internal/platform/config"
)

const (
	operatorEmail    = "ops@test.local"
	operatorPassword = "ChangeMe123!"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	hash, err := auth.HashPassword(operatorPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return config.Config{
		Addr:                 ":0",
		Environment:          "test",
		StorageBackend:       config.BackendJSONFile,
		DataFile:             filepath.Join(t.TempDir(), "chatter-data.json"),
		JWTSecret:            "test-secret",
		OperatorEmail:        operatorEmail,
		OperatorPasswordHash: hash,
		TokenTTL:             time.Hour,
		PayPeriodAnchor:      "2024-11-01",
		PayPeriodLengthDays:  14,
		InvoiceOffsetDays:    1,
		PayDateOffsetDays:    2,
		MaxBodyBytes:         1048576,
		RateLimitPerMinute:   1000,
		MetricsEnabled:       true,
		CompanyName:          "CONNECT CHATTING LLC",
		ShutdownTimeout:      time.Second,
		IdempotencyTTL:       time.Hour,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app, err := server.New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return ts
}

func login(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    operatorEmail,
		"password": operatorPassword,
	}, http.StatusOK)
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func do(t *testing.T, client *http.Client, method, url, token string, body any, header map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp, raw
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, want int) envelope {
	t.Helper()
	resp, raw := do(t, client, method, url, token, body, nil)
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, url, want, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("failed to decode data: %v: %s", err, string(env.Data))
	}
}

func envelopeErrorCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	if m, ok := env.Error.(map[string]any); ok {
		if code, ok := m["code"].(string); ok {
			return code
		}
	}
	return ""
}

func assertValidationErrorField(t *testing.T, env envelope, field string) {
	t.Helper()
	if code := envelopeErrorCode(env); code != "validation_error" {
		t.Fatalf("expected validation_error, got %+v", env.Error)
	}
	errMap, ok := env.Error.(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %T", env.Error)
	}
	details, ok := errMap["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected details object, got %+v", errMap["details"])
	}
	fieldsRaw, ok := details["fields"].([]any)
	if !ok {
		t.Fatalf("expected details.fields array, got %+v", details["fields"])
	}
	for _, item := range fieldsRaw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if value, _ := entry["field"].(string); value == field {
			return
		}
	}
	t.Fatalf("expected validation field %q in %+v", field, fieldsRaw)
}
