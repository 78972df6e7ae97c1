package forecast

import (
	"math"
	"time"
)

// HeuristicEngine is the rule-based probability generator: seasonal base
// probabilities adjusted by synthesized humidity, pressure and time of day,
// with a little jitter for variety. It needs no fitted artifacts and serves
// as a fallback implementation of the forecast operation.
type HeuristicEngine struct {
	noise NoiseFactory
}

// NewHeuristicEngine creates the rule engine.
func NewHeuristicEngine(noise NoiseFactory) *HeuristicEngine {
	if noise == nil {
		noise = TimeSeededNoise()
	}
	return &HeuristicEngine{noise: noise}
}

func (e *HeuristicEngine) Name() string { return "heuristic" }

// Ready always holds: the rule engine has no startup dependency.
func (e *HeuristicEngine) Ready() bool { return true }

// Forecast derives a Clear/Cloudy/Rain distribution for the target time.
func (e *HeuristicEngine) Forecast(at time.Time) (Prediction, error) {
	rng := e.noise()
	tc := EncodeTimeContext(at)
	d := float64(tc.DayOfYear)

	// Point estimates of humidity and pressure from the same seasonal signal
	// models the synthesizer uses.
	humidity := clip(50+30*math.Sin(2*math.Pi*(d-120)/365)+10*rng.NormFloat64(), 20, 95)
	pressure := 1013 + 10*math.Sin(2*math.Pi*(d-200)/365) + 5*rng.NormFloat64()

	clear, cloudy, rain := seasonalBase(tc.Month)

	if humidity > 80 {
		rain += 0.2
		clear -= 0.1
	}
	if pressure < 1000 {
		rain += 0.15
		clear -= 0.1
	}
	if pressure > 1020 {
		clear += 0.1
		rain -= 0.05
	}

	if tc.Hour >= 6 && tc.Hour <= 18 {
		clear += 0.1
	} else {
		cloudy += 0.1
	}

	clear += 0.05 * rng.NormFloat64()
	cloudy += 0.05 * rng.NormFloat64()
	rain += 0.05 * rng.NormFloat64()

	// Clamp negatives away, then normalize so the three sum to one.
	total := clear + cloudy + rain
	clear = math.Max(0, clear/total)
	cloudy = math.Max(0, cloudy/total)
	rain = math.Max(0, rain/total)

	total = clear + cloudy + rain
	clear /= total
	cloudy /= total
	rain /= total

	probs := map[string]float64{
		"Clear":  roundPercent(clear),
		"Cloudy": roundPercent(cloudy),
		"Rain":   roundPercent(rain),
	}

	label := "Clear"
	bestVal := clear
	if cloudy > bestVal {
		label, bestVal = "Cloudy", cloudy
	}
	if rain > bestVal {
		label = "Rain"
	}

	return Prediction{Label: label, Probabilities: probs}, nil
}

// seasonalBase returns the prior Clear/Cloudy/Rain probabilities per season.
func seasonalBase(month int) (clear, cloudy, rain float64) {
	switch month {
	case 12, 1, 2:
		return 0.5, 0.3, 0.2
	case 3, 4, 5:
		return 0.3, 0.4, 0.3
	case 6, 7, 8:
		return 0.6, 0.2, 0.2
	default:
		return 0.4, 0.3, 0.3
	}
}
