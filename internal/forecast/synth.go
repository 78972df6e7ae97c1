package forecast

import (
	"math"
	"math/rand"
	"time"
)

// DefaultWindowSteps is the length of the synthetic historical window: one
// step per hour, 30 days of history.
const DefaultWindowSteps = 720

// NoiseSource yields the random draws used by the window synthesizer.
// *rand.Rand satisfies it directly.
type NoiseSource interface {
	NormFloat64() float64
	ExpFloat64() float64
	Float64() float64
}

// NoiseFactory returns a fresh NoiseSource for each synthesized window.
// A fresh source per window keeps concurrent requests from sharing one
// non-thread-safe generator.
type NoiseFactory func() NoiseSource

// SeededNoise returns a factory producing identical draws on every call.
// Intended for tests and reproducible runs.
func SeededNoise(seed int64) NoiseFactory {
	return func() NoiseSource {
		return rand.New(rand.NewSource(seed))
	}
}

// TimeSeededNoise returns a factory producing a differently seeded source on
// every call. Intended for production.
func TimeSeededNoise() NoiseFactory {
	return func() NoiseSource {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// WindowSynthesizer fabricates a fixed-length window of plausible historical
// weather observations leading up to a target time.
//
// No real observation history is available at request time, so the window is
// generated from the same seasonal signal models used to produce the training
// data. Its statistical profile matches what the model was fitted on, but it
// does not encode actual recent weather. This is a deliberate approximation.
type WindowSynthesizer struct {
	steps int
	noise NoiseFactory
}

// NewWindowSynthesizer creates a synthesizer producing windows of the given
// length. A non-positive steps falls back to DefaultWindowSteps.
func NewWindowSynthesizer(steps int, noise NoiseFactory) *WindowSynthesizer {
	if steps <= 0 {
		steps = DefaultWindowSteps
	}
	if noise == nil {
		noise = TimeSeededNoise()
	}
	return &WindowSynthesizer{steps: steps, noise: noise}
}

// Steps returns the window length.
func (s *WindowSynthesizer) Steps() int {
	return s.steps
}

// Synthesize builds the historical window for a target time: exactly Steps()
// rows, oldest to newest, ending one hour before the target. Each row holds
// every canonical sequence feature keyed by name; projection into model order
// happens later against the fitted schema.
func (s *WindowSynthesizer) Synthesize(target time.Time) []map[string]float64 {
	rng := s.noise()
	tc := EncodeTimeContext(target)

	window := make([]map[string]float64, s.steps)
	for i := 0; i < s.steps; i++ {
		offset := i - (s.steps - 1) // hours before the target, -(W-1)..0
		absHour := tc.Hour + offset

		hour := wrapHour(absHour)
		doy := wrapDayOfYear(tc.DayOfYear + floorDiv(absHour, 24))

		hourSin, hourCos := cyclical(float64(hour), 24)
		doySin, doyCos := cyclical(float64(doy), 365)

		d := float64(doy)
		temp := 10 + 20*math.Sin(2*math.Pi*(d-80)/365) + 0.8*rng.NormFloat64()
		pressure := 1013 + 10*math.Sin(2*math.Pi*(d-200)/365) + 2*rng.NormFloat64()
		humidity := clip(50+30*math.Sin(2*math.Pi*(d-120)/365)+5*rng.NormFloat64(), 20, 95)
		wind := math.Max(0, 3+rng.NormFloat64())

		// Precipitation is zero most of the time; in transitional months it is
		// drawn from an exponential distribution behind a fixed gate.
		rain := 0.0
		if transitionalMonth(tc.Month) && rng.Float64() < 0.15 {
			rain = 0.3 * rng.ExpFloat64()
		}

		window[i] = map[string]float64{
			FeatureTempC:       temp,
			FeaturePressureHpa: pressure,
			FeatureRainMmHr:    rain,
			FeatureHumidity:    humidity,
			FeatureWindMs:      wind,
			FeatureHourSin:     hourSin,
			FeatureHourCos:     hourCos,
			FeatureDoySin:      doySin,
			FeatureDoyCos:      doyCos,
		}
	}
	return window
}

// transitionalMonth reports whether the month falls in spring or fall, the
// seasons the generative model allows precipitation in.
func transitionalMonth(month int) bool {
	switch month {
	case 3, 4, 5, 9, 10, 11:
		return true
	}
	return false
}

// wrapHour maps an arbitrary hour offset into [0,24).
func wrapHour(h int) int {
	h %= 24
	if h < 0 {
		h += 24
	}
	return h
}

// wrapDayOfYear renormalizes a day index into [1,365]. Day indices reached by
// walking backwards across a year boundary fall to zero or below and must
// re-enter from the top of the range.
func wrapDayOfYear(d int) int {
	d = (d - 1) % 365
	if d < 0 {
		d += 365
	}
	return d + 1
}

// floorDiv divides rounding toward negative infinity, so hour offsets before
// midnight land on the previous day.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
