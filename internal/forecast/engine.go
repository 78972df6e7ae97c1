package forecast

import (
	"fmt"
	"time"
)

// ModelContext aggregates everything the inference pipeline needs from the
// externally fitted artifacts: schema, scalers, label encoding and the
// trained classifier. It is built once at startup and shared read-only by all
// requests; nothing mutates it after load.
type ModelContext struct {
	Schema      FeatureSchema
	SeqScaler   StandardScaler
	TimeScaler  StandardScaler
	Labels      LabelEncoding
	Classifier  Classifier
	WindowSteps int
}

// Validate fails closed on any missing or inconsistent piece.
func (mc *ModelContext) Validate() error {
	if mc == nil {
		return ErrModelUnavailable
	}
	if mc.Classifier == nil {
		return fmt.Errorf("model context has no classifier")
	}
	if mc.Labels.Len() == 0 {
		return fmt.Errorf("model context has no label encoding")
	}
	if mc.WindowSteps <= 0 {
		return fmt.Errorf("model context has invalid window length %d", mc.WindowSteps)
	}
	// Scaler/schema consistency is re-checked by NewNormalizer.
	if err := mc.Schema.Validate(); err != nil {
		return err
	}
	return nil
}

// Engine produces a prediction for a validated target time. Two
// implementations exist: the model pipeline and the heuristic rule engine.
type Engine interface {
	Name() string
	Ready() bool
	Forecast(at time.Time) (Prediction, error)
}

// ModelEngine is the feature-sequence synthesis and dual-input inference
// pipeline: synthesize window, encode time context, normalize both in schema
// order, run the classifier, decode probabilities.
type ModelEngine struct {
	ctx        *ModelContext
	synth      *WindowSynthesizer
	normalizer *Normalizer
	infer      *InferenceAdapter
}

// NewModelEngine builds the pipeline around a loaded model context. A nil
// context yields a degraded engine whose forecasts fail fast with
// ErrModelUnavailable; the process stays up either way.
func NewModelEngine(mc *ModelContext, noise NoiseFactory) (*ModelEngine, error) {
	if mc == nil {
		return &ModelEngine{}, nil
	}
	if err := mc.Validate(); err != nil {
		return nil, err
	}
	normalizer, err := NewNormalizer(mc.Schema, mc.SeqScaler, mc.TimeScaler)
	if err != nil {
		return nil, err
	}
	// Serialize inference when the classifier says it cannot be invoked
	// concurrently; the rest of the pipeline is unaffected either way.
	serialize := false
	if cs, ok := mc.Classifier.(interface{ ConcurrentSafe() bool }); ok {
		serialize = !cs.ConcurrentSafe()
	}

	return &ModelEngine{
		ctx:        mc,
		synth:      NewWindowSynthesizer(mc.WindowSteps, noise),
		normalizer: normalizer,
		infer:      NewInferenceAdapter(mc.Classifier, serialize),
	}, nil
}

func (e *ModelEngine) Name() string { return "model" }

// Ready reports whether the model artifacts were loaded at startup.
func (e *ModelEngine) Ready() bool { return e.ctx != nil }

// Forecast runs the full pipeline for one target time. Any internal
// inconsistency fails the request, never the process.
func (e *ModelEngine) Forecast(at time.Time) (Prediction, error) {
	if !e.Ready() {
		return Prediction{}, ErrModelUnavailable
	}

	tc := EncodeTimeContext(at)
	window := e.synth.Synthesize(at)

	matrix, err := e.normalizer.NormalizeWindow(window)
	if err != nil {
		return Prediction{}, err
	}
	timeVec, err := e.normalizer.NormalizeTimeContext(tc)
	if err != nil {
		return Prediction{}, err
	}

	probs, err := e.infer.Infer(matrix, timeVec)
	if err != nil {
		return Prediction{}, err
	}

	return DecodeProbabilities(probs, e.ctx.Labels)
}
