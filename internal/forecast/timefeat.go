package forecast

import (
	"math"
	"time"
)

// TimeContext holds the calendar and cyclical features derived from a target
// timestamp. Hour and day-of-year are encoded as sine/cosine pairs because
// their raw values wrap (23→0, 365→1); the cyclical encoding keeps adjacent
// instants adjacent on the unit circle, which a linear-scale model needs.
type TimeContext struct {
	Hour      int
	DayOfYear int
	Month     int // 1-12
	DayOfWeek int // 0-6, Monday=0

	HourSin float64
	HourCos float64
	DoySin  float64
	DoyCos  float64
}

// EncodeTimeContext derives the time-context features for a target timestamp.
// Pure and deterministic for a given instant.
func EncodeTimeContext(t time.Time) TimeContext {
	hour := t.Hour()
	doy := t.YearDay()

	hourSin, hourCos := cyclical(float64(hour), 24)
	doySin, doyCos := cyclical(float64(doy), 365)

	return TimeContext{
		Hour:      hour,
		DayOfYear: doy,
		Month:     int(t.Month()),
		// Monday=0 to match the convention the time scaler was fitted with.
		DayOfWeek: (int(t.Weekday()) + 6) % 7,
		HourSin:   hourSin,
		HourCos:   hourCos,
		DoySin:    doySin,
		DoyCos:    doyCos,
	}
}

// Values returns the encoded features keyed by canonical name, ready to be
// projected into schema order.
func (tc TimeContext) Values() map[string]float64 {
	return map[string]float64{
		FeatureHourSin:   tc.HourSin,
		FeatureHourCos:   tc.HourCos,
		FeatureDoySin:    tc.DoySin,
		FeatureDoyCos:    tc.DoyCos,
		FeatureMonth:     float64(tc.Month),
		FeatureDayOfWeek: float64(tc.DayOfWeek),
	}
}

// cyclical encodes a periodic value as a point on the unit circle.
func cyclical(value, period float64) (sin, cos float64) {
	angle := 2 * math.Pi * value / period
	return math.Sin(angle), math.Cos(angle)
}
