package forecast

import (
	"math"
	"testing"
	"time"
)

func TestEncodeTimeContext(t *testing.T) {
	// Friday 2025-07-04 14:00 UTC, day of year 185.
	at := time.Date(2025, 7, 4, 14, 0, 0, 0, time.UTC)
	tc := EncodeTimeContext(at)

	if tc.Hour != 14 {
		t.Errorf("Hour = %d, want 14", tc.Hour)
	}
	if tc.Month != 7 {
		t.Errorf("Month = %d, want 7", tc.Month)
	}
	if tc.DayOfYear != 185 {
		t.Errorf("DayOfYear = %d, want 185", tc.DayOfYear)
	}
	// Monday=0 convention puts Friday at 4.
	if tc.DayOfWeek != 4 {
		t.Errorf("DayOfWeek = %d, want 4", tc.DayOfWeek)
	}

	wantHourSin := math.Sin(2 * math.Pi * 14 / 24)
	if math.Abs(tc.HourSin-wantHourSin) > 1e-12 {
		t.Errorf("HourSin = %v, want %v", tc.HourSin, wantHourSin)
	}
}

func TestEncodeTimeContextMondayIsZero(t *testing.T) {
	// 2025-07-07 is a Monday.
	tc := EncodeTimeContext(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC))
	if tc.DayOfWeek != 0 {
		t.Errorf("DayOfWeek = %d, want 0 for Monday", tc.DayOfWeek)
	}

	// 2025-07-13 is a Sunday.
	tc = EncodeTimeContext(time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC))
	if tc.DayOfWeek != 6 {
		t.Errorf("DayOfWeek = %d, want 6 for Sunday", tc.DayOfWeek)
	}
}

// TestCyclicalContinuity verifies the point of the sine/cosine encoding: the
// wraparound instants must stay adjacent on the unit circle.
func TestCyclicalContinuity(t *testing.T) {
	tests := []struct {
		name    string
		a, b    float64
		period  float64
		maxDist float64
	}{
		{name: "hour 23 vs hour 0", a: 23, b: 0, period: 24, maxDist: 0.3},
		{name: "day 365 vs day 1", a: 365, b: 1, period: 365, maxDist: 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sinA, cosA := cyclical(tt.a, tt.period)
			sinB, cosB := cyclical(tt.b, tt.period)

			dist := math.Hypot(sinA-sinB, cosA-cosB)
			if dist > tt.maxDist {
				t.Errorf("unit-circle distance = %v, want <= %v", dist, tt.maxDist)
			}
		})
	}
}

func TestTimeContextValuesCoverAllTimeFeatures(t *testing.T) {
	tc := EncodeTimeContext(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	values := tc.Values()

	for _, name := range []string{
		FeatureHourSin, FeatureHourCos, FeatureDoySin, FeatureDoyCos,
		FeatureMonth, FeatureDayOfWeek,
	} {
		if _, ok := values[name]; !ok {
			t.Errorf("Values() is missing feature %q", name)
		}
	}
}
