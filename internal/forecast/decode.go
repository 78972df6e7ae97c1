package forecast

import (
	"fmt"
	"math"
)

// LabelEncoding is the fixed bijection between the positions of the model's
// output vector and human-readable condition names. Immutable after load.
type LabelEncoding struct {
	labels []string
}

// NewLabelEncoding builds an encoding from class names ordered by class index.
func NewLabelEncoding(labels []string) (LabelEncoding, error) {
	if len(labels) == 0 {
		return LabelEncoding{}, fmt.Errorf("label encoding has no classes")
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l == "" {
			return LabelEncoding{}, fmt.Errorf("label encoding contains an empty class name")
		}
		if seen[l] {
			return LabelEncoding{}, fmt.Errorf("label encoding declares class %q twice", l)
		}
		seen[l] = true
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return LabelEncoding{labels: out}, nil
}

// Len returns the number of classes.
func (le LabelEncoding) Len() int {
	return len(le.labels)
}

// Labels returns the class names ordered by index.
func (le LabelEncoding) Labels() []string {
	out := make([]string, len(le.labels))
	copy(out, le.labels)
	return out
}

// Prediction is a decoded classifier output: the winning label plus the full
// distribution as percentages.
type Prediction struct {
	Label         string
	Probabilities map[string]float64
}

// DecodeProbabilities maps a raw probability vector back to named labels.
// Values become percentages rounded to two decimals; the predicted label is
// the argmax, with ties broken by the lowest class index so the result is
// stable and deterministic.
func DecodeProbabilities(probs []float64, le LabelEncoding) (Prediction, error) {
	if len(probs) != le.Len() {
		return Prediction{}, fmt.Errorf("classifier returned %d probabilities for %d classes", len(probs), le.Len())
	}

	out := make(map[string]float64, len(probs))
	best := 0
	for i, p := range probs {
		out[le.labels[i]] = roundPercent(p)
		if p > probs[best] {
			best = i
		}
	}

	return Prediction{Label: le.labels[best], Probabilities: out}, nil
}

// roundPercent converts a probability to a percentage rounded to 2 decimals.
func roundPercent(p float64) float64 {
	return math.Round(p*100*100) / 100
}
