package apihttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"mandimitra/internal/dataset"
	"mandimitra/internal/engine"
	"mandimitra/internal/logistics"
	"mandimitra/internal/store/decisionlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	loader, err := dataset.NewLoader(dataset.Paths{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = loader.Close() })

	logs, err := decisionlog.NewStore(filepath.Join(t.TempDir(), "decisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = logs.Close() })

	router := NewRouter(loader, logistics.DefaultRateTable(), engine.DefaultOptions(), logs)
	srv, err := NewServer(":0", router)
	require.NoError(t, err)
	return srv
}

func evaluateBody(crop string, qty float64) []byte {
	harvest := time.Now().UTC().AddDate(0, 0, -5).Format("2006-01-02")
	body := fmt.Sprintf(`{
		"crop": %q,
		"quantity_kg": %v,
		"location": {"lat": 18.5204, "lon": 73.8567},
		"harvest_date": %q
	}`, crop, qty, harvest)
	return []byte(body)
}

func TestEvaluateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader(evaluateBody("onion", 1000)))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		TraceID        string `json:"trace_id"`
		DatasetVersion int64  `json:"dataset_version"`
		Result         struct {
			Crop            string  `json:"crop"`
			StorageDecision string  `json:"storage_decision"`
			BestMarketName  string  `json:"best_market_name"`
			NetProfit       float64 `json:"net_profit"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, int64(1), resp.DatasetVersion)
	assert.Equal(t, "onion", resp.Result.Crop)
	assert.Contains(t, []string{"sell_now", "store_and_sell"}, resp.Result.StorageDecision)
	assert.NotEmpty(t, resp.Result.BestMarketName)

	// The evaluation lands in the decision log.
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/v1/decisions", nil))
	require.Equal(t, http.StatusOK, rec2.Code)
	var list struct {
		Decisions  []decisionlog.Record `json:"decisions"`
		TotalCount int64                `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &list))
	require.Len(t, list.Decisions, 1)
	assert.Equal(t, resp.TraceID, list.Decisions[0].TraceID)

	rec3 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec3, httptest.NewRequest(http.MethodGet, "/api/v1/decisions/"+resp.TraceID, nil))
	require.Equal(t, http.StatusOK, rec3.Code)
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	t.Run("non-positive quantity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader(evaluateBody("onion", 0)))
		req.Header.Set("Content-Type", "application/json")
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing crop", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader(evaluateBody("", 100)))
		req.Header.Set("Content-Type", "application/json")
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad harvest date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"crop":"onion","quantity_kg":100,"location":{"lat":18.5,"lon":73.8},"harvest_date":"30-08-2026"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReferenceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/markets", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pune")

	// Crop filter narrows the directory to markets trading it.
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/v1/markets?crop=grapes", nil))
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "Nashik")
	assert.NotContains(t, rec2.Body.String(), "Solapur")

	rec3 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec3, httptest.NewRequest(http.MethodGet, "/api/v1/facilities", nil))
	require.Equal(t, http.StatusOK, rec3.Code)
	assert.Contains(t, rec3.Body.String(), "cold")
}

func TestForecastChart(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/forecast/chart?crop=onion&market=Pune", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "echarts")

	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/v1/forecast/chart?crop=durian", nil))
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
