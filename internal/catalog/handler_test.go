package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityguide/portal-service/internal/catalog"
)

func newTestMux(store catalog.Store) *http.ServeMux {
	mux := http.NewServeMux()
	catalog.NewHandler(catalog.NewService(store), nil).RegisterRoutes(mux)
	return mux
}

func doGet(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHandler_ListReturnsRankedArray(t *testing.T) {
	rr := doGet(t, newTestMux(fixtureStore()), "/attractions")

	require.Equal(t, http.StatusOK, rr.Code)
	var items []catalog.Attraction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 4)
	assert.Equal(t, 91.5, items[0].AIScore)
}

func TestHandler_ListWithLimit(t *testing.T) {
	rr := doGet(t, newTestMux(fixtureStore()), "/food?limit=1")

	require.Equal(t, http.StatusOK, rr.Code)
	var items []catalog.Food
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "f1", items[0].ID)
}

func TestHandler_ListBadLimitIsBadRequest(t *testing.T) {
	for _, q := range []string{"limit=abc", "limit=0", "limit=-3"} {
		rr := doGet(t, newTestMux(fixtureStore()), "/jobs?"+q)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "query %q", q)
	}
}

func TestHandler_ListOnEmptyBackendIsStillOK(t *testing.T) {
	// Degraded startup: no pool at all. The portal renders an empty state,
	// never an error page.
	mux := newTestMux(catalog.NewPGStore(nil))
	rr := doGet(t, mux, "/real-estate")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestHandler_DetailFound(t *testing.T) {
	rr := doGet(t, newTestMux(fixtureStore()), "/attractions/a3")

	require.Equal(t, http.StatusOK, rr.Code)
	var a catalog.Attraction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &a))
	assert.Equal(t, "a3", a.ID)
}

func TestHandler_DetailAbsentIs404(t *testing.T) {
	rr := doGet(t, newTestMux(fixtureStore()), "/jobs/nope")

	require.Equal(t, http.StatusNotFound, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "job not found", body["error"])
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(fixtureStore())
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/attractions", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandler_RecommendationsLivePath(t *testing.T) {
	store := fixtureStore()
	rr := doGet(t, newTestMux(store), "/recommendations")

	require.Equal(t, http.StatusOK, rr.Code)
	var rec catalog.Recommendations
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	require.NotNil(t, rec.Attraction)
	require.NotNil(t, rec.Food)
	require.NotNil(t, rec.RealEstate)
	assert.Equal(t, "f1", rec.Food.ID)
}
