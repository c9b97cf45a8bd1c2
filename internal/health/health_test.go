package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var response Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestHealthHandler_Healthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("receipts", NewSimpleChecker("receipts", func() error { return nil }))

	w := serve(t, handler.ServeHTTP, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	response := decode(t, w)
	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "v1.0.0", response.Version)
	assert.Len(t, response.Checks, 1)
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("ok", NewSimpleChecker("ok", func() error { return nil }))
	handler.RegisterChecker("broken", NewSimpleChecker("broken", func() error {
		return errors.New("receipt store unavailable")
	}))

	w := serve(t, handler.ServeHTTP, "/healthz")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	response := decode(t, w)
	assert.Equal(t, StatusUnhealthy, response.Status)
	assert.Equal(t, "receipt store unavailable", response.Checks["broken"].Message)
}

func TestHealthHandler_DegradedStaysAvailable(t *testing.T) {
	handler := NewHandler("dev")
	checker := NewScenarioChecker("scenario")
	handler.RegisterChecker("scenario", checker)

	w := serve(t, handler.ServeHTTP, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StatusDegraded, decode(t, w).Status)

	ready := serve(t, handler.ReadinessHandler, "/readyz")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Equal(t, "ready", ready.Body.String())
}

func TestLivenessHandler(t *testing.T) {
	w := serve(t, LivenessHandler, "/livez")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestReadinessHandler_NotReady(t *testing.T) {
	handler := NewHandler("v1.0.0")
	checker := NewScenarioChecker("scenario")
	handler.RegisterChecker("scenario", checker)
	checker.Record(0, 0, errors.New("unknown reference: product \"Ghost\""))

	w := serve(t, handler.ReadinessHandler, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "not ready", w.Body.String())
}

func TestSimpleChecker(t *testing.T) {
	check := NewSimpleChecker("probe", func() error { return nil }).Check()
	assert.Equal(t, StatusHealthy, check.Status)
	assert.Equal(t, "probe", check.Name)
	assert.Empty(t, check.Message)

	check = NewSimpleChecker("probe", func() error { return errors.New("test error") }).Check()
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Equal(t, "test error", check.Message)
}

func TestScenarioChecker_Record(t *testing.T) {
	checker := NewScenarioChecker("scenario")
	assert.Equal(t, StatusDegraded, checker.Check().Status)

	checker.Record(12, 0, nil)
	check := checker.Check()
	assert.Equal(t, StatusHealthy, check.Status)
	assert.Equal(t, "12 steps passed", check.Message)

	checker.Record(12, 2, nil)
	check = checker.Check()
	assert.Equal(t, StatusDegraded, check.Status)
	assert.Equal(t, "2 of 12 steps deviated from expectations", check.Message)

	checker.Record(3, 0, errors.New("boom"))
	assert.Equal(t, StatusUnhealthy, checker.Check().Status)
}
