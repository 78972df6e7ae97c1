// Package artifacts loads the externally fitted model bundle: the trained
// classifier weights, the two standardization transforms, the label encoding
// and the ordered feature schema. Everything is loaded once at startup and
// validated as a whole; a bundle that fails any check is rejected outright so
// the service degrades instead of serving plausible-looking wrong answers.
package artifacts

import (
	"encoding/json"
	"fmt"

	"github.com/tminusrain/parade-forecast/internal/forecast"
	"github.com/tminusrain/parade-forecast/internal/model"
)

// ScalerParams are the fitted parameters of one standardization transform.
type ScalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Bundle is the on-disk / on-wire JSON layout of a fitted artifact set.
type Bundle struct {
	Version          string                    `json:"version"`
	WindowSteps      int                       `json:"window_steps"`
	SequenceFeatures []string                  `json:"sequence_features"`
	TimeFeatures     []string                  `json:"time_features"`
	Labels           []string                  `json:"labels"`
	SequenceScaler   ScalerParams              `json:"sequence_scaler"`
	TimeScaler       ScalerParams              `json:"time_scaler"`
	Model            *model.TwoInputClassifier `json:"model"`
}

// ParseBundle decodes and fully validates a bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode artifact bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate cross-checks every piece of the bundle against every other. The
// feature order and counts are a contract with the trained weights; any
// inconsistency means the bundle is stale or was assembled from mismatched
// artifacts.
func (b *Bundle) Validate() error {
	if b.Model == nil {
		return fmt.Errorf("artifact bundle has no model weights")
	}
	if err := b.Model.Validate(); err != nil {
		return fmt.Errorf("artifact bundle model: %w", err)
	}
	if b.WindowSteps <= 0 {
		return fmt.Errorf("artifact bundle declares invalid window length %d", b.WindowSteps)
	}

	schema := b.Schema()
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("artifact bundle schema: %w", err)
	}

	if got, want := len(b.SequenceScaler.Mean), len(b.SequenceFeatures); got != want {
		return fmt.Errorf("sequence scaler fitted on %d features, schema declares %d", got, want)
	}
	if got, want := len(b.TimeScaler.Mean), len(b.TimeFeatures); got != want {
		return fmt.Errorf("time scaler fitted on %d features, schema declares %d", got, want)
	}
	if got, want := b.Model.SequenceFeatures(), len(b.SequenceFeatures); got != want {
		return fmt.Errorf("model expects %d sequence features, schema declares %d", got, want)
	}
	if got, want := b.Model.TimeFeatures(), len(b.TimeFeatures); got != want {
		return fmt.Errorf("model expects %d time features, schema declares %d", got, want)
	}
	if got, want := b.Model.NumClasses(), len(b.Labels); got != want {
		return fmt.Errorf("model outputs %d classes, label encoding declares %d", got, want)
	}
	if len(b.Labels) == 0 {
		return fmt.Errorf("artifact bundle has no labels")
	}
	return nil
}

// Schema returns the ordered feature schema declared by the bundle.
func (b *Bundle) Schema() forecast.FeatureSchema {
	return forecast.FeatureSchema{
		SequenceFeatures: b.SequenceFeatures,
		TimeFeatures:     b.TimeFeatures,
	}
}

// ModelContext assembles the immutable per-process model context from a
// validated bundle.
func (b *Bundle) ModelContext() (*forecast.ModelContext, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	labels, err := forecast.NewLabelEncoding(b.Labels)
	if err != nil {
		return nil, err
	}
	return &forecast.ModelContext{
		Schema:      b.Schema(),
		SeqScaler:   forecast.StandardScaler{Mean: b.SequenceScaler.Mean, Scale: b.SequenceScaler.Scale},
		TimeScaler:  forecast.StandardScaler{Mean: b.TimeScaler.Mean, Scale: b.TimeScaler.Scale},
		Labels:      labels,
		Classifier:  b.Model,
		WindowSteps: b.WindowSteps,
	}, nil
}
