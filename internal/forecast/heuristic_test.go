package forecast

import (
	"math"
	"testing"
	"time"
)

func TestHeuristicEngineDistribution(t *testing.T) {
	engine := NewHeuristicEngine(SeededNoise(1))

	targets := []time.Time{
		time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 4, 14, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 31, 22, 0, 0, 0, time.UTC),
	}

	for _, at := range targets {
		pred, err := engine.Forecast(at)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", at, err)
		}

		var sum float64
		for _, pct := range pred.Probabilities {
			if pct < 0 || pct > 100 {
				t.Errorf("%v: probability %v outside [0,100]", at, pct)
			}
			sum += pct
		}
		if math.Abs(sum-100) > 0.1 {
			t.Errorf("%v: probabilities sum = %v, want 100 within 0.1", at, sum)
		}

		winning := pred.Probabilities[pred.Label]
		for label, pct := range pred.Probabilities {
			if pct > winning {
				t.Errorf("%v: predicted %q (%v%%) but %q has %v%%", at, pred.Label, winning, label, pct)
			}
		}
	}
}

func TestHeuristicEngineDeterministicWithSeed(t *testing.T) {
	at := time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

	a, err := NewHeuristicEngine(SeededNoise(9)).Forecast(at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewHeuristicEngine(SeededNoise(9)).Forecast(at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Label != b.Label {
		t.Errorf("labels differ between seeded runs: %q vs %q", a.Label, b.Label)
	}
	for label, pct := range a.Probabilities {
		if b.Probabilities[label] != pct {
			t.Errorf("probability for %q differs between seeded runs: %v vs %v", label, pct, b.Probabilities[label])
		}
	}
}

func TestHeuristicEngineAlwaysReady(t *testing.T) {
	engine := NewHeuristicEngine(nil)
	if !engine.Ready() {
		t.Error("heuristic engine must always be ready")
	}
	if engine.Name() != "heuristic" {
		t.Errorf("Name() = %q, want %q", engine.Name(), "heuristic")
	}
}
