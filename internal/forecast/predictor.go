package forecast

import "sync"

// Classifier is the trained two-input sequence model: it scores a normalized
// W x F_seq window together with a normalized time-context vector and returns
// a probability vector over condition classes. Implementations must be
// deterministic and side-effect-free for fixed inputs.
type Classifier interface {
	Predict(window [][]float64, timeVec []float64) ([]float64, error)
}

// InferenceAdapter invokes the pre-loaded classifier exactly once per
// request, synchronously, with no retry: retrying a deterministic computation
// cannot change the outcome.
type InferenceAdapter struct {
	classifier Classifier

	// gate serializes calls when the classifier is not safe for concurrent
	// invocation. Nil means calls may run in parallel.
	gate *sync.Mutex
}

// NewInferenceAdapter wraps a classifier. Set serialize when the underlying
// implementation cannot be invoked concurrently.
func NewInferenceAdapter(c Classifier, serialize bool) *InferenceAdapter {
	a := &InferenceAdapter{classifier: c}
	if serialize {
		a.gate = &sync.Mutex{}
	}
	return a
}

// Infer runs one classifier invocation. Returns ErrModelUnavailable when no
// classifier was loaded at startup.
func (a *InferenceAdapter) Infer(window [][]float64, timeVec []float64) ([]float64, error) {
	if a == nil || a.classifier == nil {
		return nil, ErrModelUnavailable
	}
	if a.gate != nil {
		a.gate.Lock()
		defer a.gate.Unlock()
	}
	return a.classifier.Predict(window, timeVec)
}
