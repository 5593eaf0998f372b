package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"frontdesk/internal/config"

	"github.com/stretchr/testify/assert"
)

func newAuthConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true},
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			HeaderExtra:  "x-api-extra",
			APIKeys: []config.APIClientKey{
				{Key: "valid-key", Extra: "valid-extra", Permissions: []string{"read:rooms"}},
			},
		},
		RateLimit: config.APIRateLimitConfig{RPS: 100, Burst: 200},
	}
}

func doAuth(t *testing.T, auth *HTTPAuth, method, path, key, extra string) *httptest.ResponseRecorder {
	t.Helper()
	handler := auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	if extra != "" {
		req.Header.Set("x-api-extra", extra)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHTTPAuth(t *testing.T) {
	auth := NewHTTPAuth(newAuthConfig())

	t.Run("Success", func(t *testing.T) {
		rec := doAuth(t, auth, http.MethodGet, "/api/v1/rooms", "valid-key", "valid-extra")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("MissingHeaders", func(t *testing.T) {
		rec := doAuth(t, auth, http.MethodGet, "/api/v1/rooms", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		rec := doAuth(t, auth, http.MethodGet, "/api/v1/rooms", "invalid", "valid-extra")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidExtra", func(t *testing.T) {
		rec := doAuth(t, auth, http.MethodGet, "/api/v1/rooms", "valid-key", "invalid")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("PermissionDenied", func(t *testing.T) {
		// Read-only key cannot write the cash ledger.
		rec := doAuth(t, auth, http.MethodPost, "/api/v1/cash", "valid-key", "valid-extra")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("DisabledAuthPassesThrough", func(t *testing.T) {
		cfg := newAuthConfig()
		cfg.Auth.Enabled = false
		open := NewHTTPAuth(cfg)
		rec := doAuth(t, open, http.MethodGet, "/api/v1/rooms", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHTTPAuthRateLimit(t *testing.T) {
	cfg := newAuthConfig()
	cfg.Auth.Enabled = false
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 1, Burst: 2}
	auth := NewHTTPAuth(cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := doAuth(t, auth, http.MethodGet, "/api/v1/rooms", "some-key", "")
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestRequiredPermissionHTTP(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/rooms/5", "read:rooms"},
		{http.MethodPut, "/api/v1/rooms/5", "write:rooms"},
		{http.MethodPost, "/api/v1/timeclock/in", "write:timeclock"},
		{http.MethodGet, "/api/v1/cash/balance", "read:cash"},
		{http.MethodDelete, "/api/v1/notes/3", "write:notes"},
		{http.MethodGet, "/healthz", ""},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		assert.Equal(t, tc.want, requiredPermissionHTTP(req), "%s %s", tc.method, tc.path)
	}
}
