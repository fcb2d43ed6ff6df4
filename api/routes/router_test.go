package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseras/storefront-backend/api/controllers"
	checkoutsvc "github.com/pulseras/storefront-backend/internal/checkout"
	"github.com/pulseras/storefront-backend/internal/localstore"
	"github.com/pulseras/storefront-backend/pkg/config"
	"github.com/pulseras/storefront-backend/pkg/logger"
	"github.com/pulseras/storefront-backend/pkg/metrics"
)

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:3000"}}}
}

func newTestRouter(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	if deps.Device == nil {
		deps.Device = localstore.NewMemory()
	}
	return NewRouter(testConfig(), logger.Nop(), deps)
}

func TestHealthRoutes(t *testing.T) {
	h := newTestRouter(t, Dependencies{Readiness: map[string]controllers.Pinger{"redis": pingStub{}}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Pulseras-Env"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsFailingDependency(t *testing.T) {
	h := newTestRouter(t, Dependencies{Readiness: map[string]controllers.Pinger{"db": pingStub{err: errors.New("down")}}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCartRoutesShareSessionState(t *testing.T) {
	h := newTestRouter(t, Dependencies{})

	body := `{"productId":"p1","productName":"Jade","price":150000,"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("X-Session-Id", "sess-router")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "sess-router", rec.Header().Get("X-Session-Id"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "sess-router")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ItemCount int `json:"itemCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.ItemCount)
}

func TestCheckoutResultRouteRendersCard(t *testing.T) {
	h := newTestRouter(t, Dependencies{Checkout: checkoutsvc.Deps{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/result?cancel=true", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"cancelled"`)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)
	cartMetrics.IncCorruptLoad()
	h := newTestRouter(t, Dependencies{Gatherer: reg, CartMetrics: cartMetrics})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart_corrupt_loads_total 1")
}

func TestMetricsEndpointAbsentWithoutGatherer(t *testing.T) {
	h := newTestRouter(t, Dependencies{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
