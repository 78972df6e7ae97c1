package forecast

import "fmt"

// StandardScaler is a pre-fitted per-feature standardization transform:
// (x - mean) / scale, applied positionally. Immutable after load and shared
// read-only across requests.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// NumFeatures returns the feature count the scaler was fitted on.
func (s StandardScaler) NumFeatures() int {
	return len(s.Mean)
}

// Validate checks internal consistency of the fitted parameters.
func (s StandardScaler) Validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler has no fitted parameters")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean/scale length mismatch: %d vs %d", len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return fmt.Errorf("scaler has zero scale for feature index %d", i)
		}
	}
	return nil
}

// Transform standardizes one feature vector. The vector length must equal the
// fitted feature count.
func (s StandardScaler) Transform(stage string, vec []float64) ([]float64, error) {
	if len(vec) != len(s.Mean) {
		return nil, &SchemaMismatchError{Stage: stage, Want: len(s.Mean), Got: len(vec)}
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// Normalizer projects synthesized raw features into schema order and applies
// the two fitted transforms: the sequence scaler per window row and the
// time-context scaler once per request.
type Normalizer struct {
	schema     FeatureSchema
	seqScaler  StandardScaler
	timeScaler StandardScaler
}

// NewNormalizer wires a schema to its fitted scalers. Feature counts are
// checked eagerly: a count mismatch is evidence of a stale or incompatible
// artifact and must never produce a plausible-looking wrong answer.
func NewNormalizer(schema FeatureSchema, seqScaler, timeScaler StandardScaler) (*Normalizer, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if err := seqScaler.Validate(); err != nil {
		return nil, fmt.Errorf("sequence scaler: %w", err)
	}
	if err := timeScaler.Validate(); err != nil {
		return nil, fmt.Errorf("time scaler: %w", err)
	}
	if seqScaler.NumFeatures() != len(schema.SequenceFeatures) {
		return nil, &SchemaMismatchError{Stage: "sequence", Want: len(schema.SequenceFeatures), Got: seqScaler.NumFeatures()}
	}
	if timeScaler.NumFeatures() != len(schema.TimeFeatures) {
		return nil, &SchemaMismatchError{Stage: "time", Want: len(schema.TimeFeatures), Got: timeScaler.NumFeatures()}
	}
	return &Normalizer{schema: schema, seqScaler: seqScaler, timeScaler: timeScaler}, nil
}

// NormalizeWindow assembles each raw row in schema order and standardizes it,
// returning the W x F_seq matrix fed to the sequence input of the model.
func (n *Normalizer) NormalizeWindow(window []map[string]float64) ([][]float64, error) {
	matrix := make([][]float64, len(window))
	for i, row := range window {
		vec, err := AssembleVector("sequence", n.schema.SequenceFeatures, row)
		if err != nil {
			return nil, err
		}
		scaled, err := n.seqScaler.Transform("sequence", vec)
		if err != nil {
			return nil, err
		}
		matrix[i] = scaled
	}
	return matrix, nil
}

// NormalizeTimeContext assembles and standardizes the time-context vector.
func (n *Normalizer) NormalizeTimeContext(tc TimeContext) ([]float64, error) {
	vec, err := AssembleVector("time", n.schema.TimeFeatures, tc.Values())
	if err != nil {
		return nil, err
	}
	return n.timeScaler.Transform("time", vec)
}
