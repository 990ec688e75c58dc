package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-discovery/api-gateway/internal/config"
	"town-discovery/api-gateway/internal/middleware"
	"town-discovery/api-gateway/internal/proxy"
)

// backend answers with its own name and echoes what the gateway forwarded.
func backend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backend", name)
		w.Header().Set("X-Seen-Request-ID", r.Header.Get("X-Request-ID"))
		w.Header().Set("X-Seen-Query", r.URL.RawQuery)
		w.Header().Set("X-Seen-Path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		TownServiceURL:           backend(t, "towns").URL,
		UserPreferenceServiceURL: backend(t, "preferences").URL,
		MatchingServiceURL:       backend(t, "matching").URL,
		MatchRateLimitMax:        2,
		RateLimitWindowSeconds:   60,
	}
}

func newGatewayWith(cfg *config.Config, rdb *redis.Client) *fiber.App {
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Use(middleware.AuthMiddleware())
	RegisterRoutes(app, cfg, proxy.NewServiceProxy(time.Second), middleware.NewRateLimiter(rdb))
	return app
}

func newGateway(t *testing.T) *fiber.App {
	t.Helper()
	return newGatewayWith(testConfig(t), nil)
}

func authed(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestRoutes(t *testing.T) {
	app := newGateway(t)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/towns", "towns"},
		{http.MethodGet, "/api/v1/towns/4", "towns"},
		{http.MethodPost, "/api/v1/admin/sync", "towns"},
		{http.MethodPost, "/api/v1/admin/capabilities", "towns"},
		{http.MethodGet, "/api/v1/towns/4/hobbies", "matching"},
		{http.MethodGet, "/api/v1/users/1/town-matches", "matching"},
		{http.MethodGet, "/api/v1/hobbies", "matching"},
		{http.MethodPost, "/api/v1/hobby-score", "matching"},
		{http.MethodPost, "/api/v1/users", "preferences"},
		{http.MethodGet, "/api/v1/users/1/preferences", "preferences"},
		{http.MethodDelete, "/api/v1/users/1/favorites/3", "preferences"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(authed(tt.method, tt.path))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, resp.Header.Get("X-Backend"))
			assert.Equal(t, tt.path, resp.Header.Get("X-Seen-Path"))
		})
	}
}

func TestProxyForwardsRequestIDAndQuery(t *testing.T) {
	app := newGateway(t)

	req := authed(http.MethodGet, "/api/v1/users/1/town-matches?limit=5")
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get("X-Seen-Request-ID"))
	assert.Equal(t, "limit=5", resp.Header.Get("X-Seen-Query"))
}

func TestProxyUnavailableBackend(t *testing.T) {
	app := newGatewayWith(&config.Config{TownServiceURL: "http://127.0.0.1:1"}, nil)

	resp, err := app.Test(authed(http.MethodGet, "/api/v1/towns"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "town-service", body["service"])
	assert.Equal(t, true, body["retryable"])
	assert.NotEmpty(t, body["request_id"])
}

func TestProxySlowBackendTimesOut(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	app := newGatewayWith(&config.Config{MatchingServiceURL: slow.URL}, nil)
	resp, err := app.Test(authed(http.MethodGet, "/api/v1/hobbies"), fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestProxyNamesUpstream(t *testing.T) {
	resp, err := newGateway(t).Test(authed(http.MethodGet, "/api/v1/hobbies"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "matching-service", resp.Header.Get(proxy.UpstreamHeader))
}

func TestTownMatchesQuotaIsPerCaller(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	app := newGatewayWith(testConfig(t), rdb)

	as := func(token, path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, as("alice", "/api/v1/users/1/town-matches"))
	assert.Equal(t, http.StatusOK, as("alice", "/api/v1/users/1/town-matches"))
	assert.Equal(t, http.StatusTooManyRequests, as("alice", "/api/v1/users/1/town-matches"))

	// Other routes and other callers keep their own allowance.
	assert.Equal(t, http.StatusOK, as("alice", "/api/v1/towns"))
	assert.Equal(t, http.StatusOK, as("bob", "/api/v1/users/2/town-matches"))

	keys := mr.Keys()
	for _, k := range keys {
		assert.NotContains(t, k, "alice")
	}
}
