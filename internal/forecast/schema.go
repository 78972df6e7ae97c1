package forecast

import "fmt"

// Canonical feature names produced by the window synthesizer and the time
// context encoder. The fitted artifact bundle declares which of these the
// trained model consumes, and in which order.
const (
	FeatureTempC       = "temp_c"
	FeaturePressureHpa = "pressure_hpa"
	FeatureRainMmHr    = "rain_mmhr"
	FeatureHumidity    = "humidity"
	FeatureWindMs      = "wind_ms"
	FeatureHourSin     = "hour_sin"
	FeatureHourCos     = "hour_cos"
	FeatureDoySin      = "doy_sin"
	FeatureDoyCos      = "doy_cos"
	FeatureMonth       = "month"
	FeatureDayOfWeek   = "dayofweek"
)

// FeatureSchema declares the exact order in which features are fed to the
// trained model. The order is a contract fitted into the model and its
// scalers; it cannot be re-derived from data at runtime.
type FeatureSchema struct {
	// SequenceFeatures are the per-timestep features of the historical window.
	SequenceFeatures []string
	// TimeFeatures describe the target timestamp itself, fed once per request.
	TimeFeatures []string
}

// Validate checks the schema is non-empty and free of duplicate names.
func (s FeatureSchema) Validate() error {
	if len(s.SequenceFeatures) == 0 {
		return fmt.Errorf("schema declares no sequence features")
	}
	if len(s.TimeFeatures) == 0 {
		return fmt.Errorf("schema declares no time features")
	}
	for _, names := range [][]string{s.SequenceFeatures, s.TimeFeatures} {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if name == "" {
				return fmt.Errorf("schema contains an empty feature name")
			}
			if seen[name] {
				return fmt.Errorf("schema declares feature %q twice", name)
			}
			seen[name] = true
		}
	}
	return nil
}

// AssembleVector projects a name-keyed feature map into a vector ordered
// exactly per the given name list. The resulting order depends only on the
// schema, never on map iteration order. A missing name fails loudly: silently
// truncating or padding would produce a plausible-looking wrong prediction.
func AssembleVector(stage string, names []string, values map[string]float64) ([]float64, error) {
	vec := make([]float64, len(names))
	for i, name := range names {
		v, ok := values[name]
		if !ok {
			return nil, &SchemaMismatchError{Stage: stage, Missing: name}
		}
		vec[i] = v
	}
	return vec, nil
}
