package forecast

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tminusrain/parade-forecast/internal/common"
	"github.com/tminusrain/parade-forecast/internal/metrics"
)

// Forecasting is fixed to one location and one trained artifact. The alias
// set is matched case-insensitively; anything else is rejected.
var supportedCityAliases = []string{"new york", "nyc", "new york city"}

// timeEchoLayout formats the parsed target time echoed back in responses.
const timeEchoLayout = "2006-01-02 15:04:05"

// requestTimeLayouts are tried in order when the target time is not RFC3339.
var requestTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Request is the inbound forecast request.
type Request struct {
	City     string `json:"city" validate:"required"`
	Datetime string `json:"datetime" validate:"required"`
}

// Result is the assembled forecast response. Probabilities are percentages in
// [0,100] summing to ~100 within rounding tolerance.
type Result struct {
	ID            string             `json:"id"`
	Time          string             `json:"time"`
	Prediction    string             `json:"prediction"`
	Probabilities map[string]float64 `json:"probabilities"`
	Engine        string             `json:"engine"`
	GeneratedAt   time.Time          `json:"generatedAt"`
}

// HistoryStore records served forecasts for the recent-forecasts endpoint.
type HistoryStore interface {
	Record(res Result)
	Recent(limit int) []Result
}

// Service validates requests, runs the configured engine and assembles the
// response payload. Safe for concurrent use: the engine and its loaded
// artifacts are read-only after startup.
type Service struct {
	engine  Engine
	history HistoryStore
}

// NewService creates the forecast orchestrator. history may be nil.
func NewService(engine Engine, history HistoryStore) *Service {
	return &Service{engine: engine, history: history}
}

// EngineName returns the name of the configured engine.
func (s *Service) EngineName() string {
	return s.engine.Name()
}

// Ready reports whether the configured engine can serve forecasts.
func (s *Service) Ready() bool {
	return s.engine.Ready()
}

// Forecast runs one request through the pipeline: validate, predict,
// assemble. Validation failures reject the request before any computation;
// everything downstream either completes or fails for this request only.
func (s *Service) Forecast(req Request) (Result, error) {
	start := time.Now()

	at, err := s.validate(req)
	if err != nil {
		metrics.RecordForecast(s.engine.Name(), "validation_error", time.Since(start))
		return Result{}, err
	}

	pred, err := s.engine.Forecast(at)
	if err != nil {
		status := "internal_error"
		var schemaErr *SchemaMismatchError
		switch {
		case errors.Is(err, ErrModelUnavailable):
			status = "unavailable"
		case errors.As(err, &schemaErr):
			status = "schema_mismatch"
			// A schema mismatch means a stale or incompatible artifact; make
			// sure it is impossible to miss in the logs.
			log.Printf("ERROR: %v (artifact bundle is stale or incompatible)", err)
		}
		metrics.RecordForecast(s.engine.Name(), status, time.Since(start))
		return Result{}, err
	}

	res := Result{
		ID:            uuid.NewString(),
		Time:          at.Format(timeEchoLayout),
		Prediction:    pred.Label,
		Probabilities: pred.Probabilities,
		Engine:        s.engine.Name(),
		GeneratedAt:   time.Now().UTC(),
	}
	if s.history != nil {
		s.history.Record(res)
	}

	metrics.RecordForecast(s.engine.Name(), "ok", time.Since(start))
	return res, nil
}

// Recent returns recently served forecasts, newest first.
func (s *Service) Recent(limit int) []Result {
	if s.history == nil {
		return nil
	}
	return s.history.Recent(limit)
}

// validate checks location and timestamp before any computation happens.
func (s *Service) validate(req Request) (time.Time, error) {
	if !supportedCity(req.City) {
		return time.Time{}, &ValidationError{
			Reason: fmt.Sprintf("forecasting is available for New York City only, got %q", req.City),
		}
	}
	at, err := parseTargetTime(req.Datetime)
	if err != nil {
		return time.Time{}, &ValidationError{
			Reason: fmt.Sprintf("unparseable datetime %q", req.Datetime),
		}
	}
	return at, nil
}

// supportedCity matches the request city against the fixed alias set,
// case-insensitively.
func supportedCity(city string) bool {
	return common.ContainsFold(strings.TrimSpace(city), supportedCityAliases...)
}

// parseTargetTime accepts RFC3339 and a few common naive layouts; naive
// timestamps are interpreted as UTC.
func parseTargetTime(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	for _, layout := range requestTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
