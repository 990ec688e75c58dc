package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-discovery/matching-service/internal/models"
	"town-discovery/matching-service/internal/service"
)

type staticCatalog []models.Hobby

func (s staticCatalog) ListHobbies(context.Context) ([]models.Hobby, error) { return s, nil }

func newTestApp(t *testing.T, upstream http.Handler) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	svc := service.NewMatchService(service.Deps{
		Catalog:                  staticCatalog{{Name: "walking", Category: models.CategoryActivity, IsUniversal: true}},
		TownServiceURL:           srv.URL,
		UserPreferenceServiceURL: srv.URL,
	})
	app := fiber.New()
	Register(app, NewMatchHandler(svc))
	return app
}

func healthyUpstream() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/{id}/preferences", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"activities":["golf"],"interests":[]}`))
	})
	mux.HandleFunc("GET /api/v1/towns", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.TownListResponse{
			Page: 1, TotalPages: 1,
			Data: []models.TownRecord{
				{ID: 1, Name: "Inland"},
				{ID: 2, Name: "Links", ActivitiesAvailable: []string{"golf course"}},
			},
		})
	})
	mux.HandleFunc("GET /api/v1/towns/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":2,"name":"Links"}`))
	})
	return mux
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, healthyUpstream())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetTownMatches_OK(t *testing.T) {
	app := newTestApp(t, healthyUpstream())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/5/town-matches?limit=1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[models.TownMatchResponse](t, resp)
	assert.Equal(t, 5, body.UserID)
	require.Len(t, body.Towns, 1)
	assert.Equal(t, "Links", body.Towns[0].Name)
	assert.Equal(t, 100, body.Towns[0].Score)
}

func TestGetTownMatches_InvalidUser(t *testing.T) {
	app := newTestApp(t, healthyUpstream())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/abc/town-matches", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTownMatches_UpstreamFailureIsRetryable(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/5/town-matches", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body := decode[models.TownMatchErrorResponse](t, resp)
	assert.True(t, body.Retryable)
	assert.NotNil(t, body.Towns)
	assert.Empty(t, body.Towns)
	assert.Equal(t, "could not load user preferences", body.Error)
}

func TestScoreTown(t *testing.T) {
	app := newTestApp(t, healthyUpstream())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hobby-score", strings.NewReader(
		`{"activities":["golf","swimming"],"town":{"activities_available":["golf course"]}}`,
	))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.EqualValues(t, 50, body["score"])
	assert.Equal(t, []any{"golf"}, body["matched"])
	assert.Equal(t, []any{"swimming"}, body["missing"])
}

func TestScoreTown_BadBody(t *testing.T) {
	app := newTestApp(t, healthyUpstream())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hobby-score", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListHobbies(t *testing.T) {
	app := newTestApp(t, healthyUpstream())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/hobbies", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string][]models.Hobby](t, resp)
	require.Len(t, body["hobbies"], 1)
	assert.Equal(t, "walking", body["hobbies"][0].Name)
}

func TestGetTownHobbies(t *testing.T) {
	app := newTestApp(t, healthyUpstream())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/towns/2/hobbies", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[models.TownHobbies](t, resp)
	assert.Equal(t, 1, body.Total)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/towns/3/hobbies", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
