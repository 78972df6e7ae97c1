package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tminusrain/parade-forecast/internal/forecast"
	"github.com/tminusrain/parade-forecast/internal/store"
)

func newTestApp(t *testing.T, engine forecast.Engine) *fiber.App {
	t.Helper()
	app := fiber.New()

	history := store.NewMemoryStore(10, time.Hour)
	svc := forecast.NewService(engine, history)
	RegisterRoutes(app, svc)
	return app
}

func postForecast(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecast", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestForecastHappyPath(t *testing.T) {
	app := newTestApp(t, forecast.NewHeuristicEngine(forecast.SeededNoise(1)))

	resp := postForecast(t, app, `{"city":"NYC","datetime":"2025-07-04T14:00:00"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Time          string             `json:"time"`
		Prediction    string             `json:"prediction"`
		Probabilities map[string]float64 `json:"probabilities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if payload.Time == "" || payload.Prediction == "" {
		t.Errorf("response missing time or prediction: %+v", payload)
	}
	if len(payload.Probabilities) == 0 {
		t.Error("response has no probabilities")
	}
	if _, ok := payload.Probabilities[payload.Prediction]; !ok {
		t.Errorf("prediction %q is not among the probability classes", payload.Prediction)
	}
}

func TestForecastValidation(t *testing.T) {
	app := newTestApp(t, forecast.NewHeuristicEngine(forecast.SeededNoise(1)))

	tests := []struct {
		name string
		body string
	}{
		{name: "unsupported city", body: `{"city":"Chicago","datetime":"2025-07-04T14:00:00"}`},
		{name: "unparseable datetime", body: `{"city":"nyc","datetime":"not-a-date"}`},
		{name: "missing city", body: `{"datetime":"2025-07-04T14:00:00"}`},
		{name: "missing datetime", body: `{"city":"nyc"}`},
		{name: "empty body", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForecast(t, app, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
			}
		})
	}
}

func TestForecastDegradedModel(t *testing.T) {
	engine, err := forecast.NewModelEngine(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app := newTestApp(t, engine)

	resp := postForecast(t, app, `{"city":"nyc","datetime":"2025-07-04T14:00:00"}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, resp.StatusCode)
	}
}

func TestHealthReportsDegradedState(t *testing.T) {
	engine, err := forecast.NewModelEngine(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app := newTestApp(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "degraded" || payload.ModelLoaded {
		t.Errorf("expected degraded health, got %+v", payload)
	}
}

func TestRecentForecasts(t *testing.T) {
	app := newTestApp(t, forecast.NewHeuristicEngine(forecast.SeededNoise(1)))

	// Serve two forecasts so the history has entries.
	postForecast(t, app, `{"city":"nyc","datetime":"2025-07-04T14:00:00"}`)
	postForecast(t, app, `{"city":"nyc","datetime":"2025-07-05T09:00:00"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/recent?limit=1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Count     int               `json:"count"`
		Forecasts []forecast.Result `json:"forecasts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Count != 1 || len(payload.Forecasts) != 1 {
		t.Fatalf("expected exactly 1 recent forecast, got %+v", payload)
	}
	// Newest first.
	if payload.Forecasts[0].Time != "2025-07-05 09:00:00" {
		t.Errorf("recent forecast time = %q, want the newest request", payload.Forecasts[0].Time)
	}

	// Invalid limit is rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/recent?limit=zero", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
