// Package model implements forward inference for the two-input condition
// classifier: an LSTM branch over the historical window and a dense branch
// over the time-context vector, concatenated into a softmax head. Weights are
// fitted externally and arrive via the artifact bundle; this package never
// trains anything.
package model

import (
	"fmt"
	"math"
)

// Dense is a fully connected layer. Weights are laid out input x output.
type Dense struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"` // "", "relu" or "softmax"
}

// InputSize returns the expected input width.
func (d *Dense) InputSize() int {
	return len(d.Weights)
}

// OutputSize returns the produced output width.
func (d *Dense) OutputSize() int {
	return len(d.Bias)
}

func (d *Dense) validate(name string) error {
	if len(d.Weights) == 0 || len(d.Bias) == 0 {
		return fmt.Errorf("%s layer has no weights", name)
	}
	for i, row := range d.Weights {
		if len(row) != len(d.Bias) {
			return fmt.Errorf("%s layer weight row %d has width %d, want %d", name, i, len(row), len(d.Bias))
		}
	}
	switch d.Activation {
	case "", "relu", "softmax":
	default:
		return fmt.Errorf("%s layer has unknown activation %q", name, d.Activation)
	}
	return nil
}

func (d *Dense) apply(in []float64) ([]float64, error) {
	if len(in) != len(d.Weights) {
		return nil, fmt.Errorf("dense layer expects %d inputs, got %d", len(d.Weights), len(in))
	}
	out := make([]float64, len(d.Bias))
	copy(out, d.Bias)
	for i, x := range in {
		if x == 0 {
			continue
		}
		row := d.Weights[i]
		for j, w := range row {
			out[j] += x * w
		}
	}
	switch d.Activation {
	case "relu":
		for j, v := range out {
			if v < 0 {
				out[j] = 0
			}
		}
	case "softmax":
		softmax(out)
	}
	return out, nil
}

// LSTMLayer is a single recurrent layer in the Keras weight layout: kernel
// F x 4H, recurrent kernel H x 4H, bias 4H, with the gates ordered
// input, forget, cell, output.
type LSTMLayer struct {
	Units     int         `json:"units"`
	Kernel    [][]float64 `json:"kernel"`
	Recurrent [][]float64 `json:"recurrent"`
	Bias      []float64   `json:"bias"`
}

// InputSize returns the per-timestep feature count the layer was fitted on.
func (l *LSTMLayer) InputSize() int {
	return len(l.Kernel)
}

func (l *LSTMLayer) validate() error {
	if l.Units <= 0 {
		return fmt.Errorf("lstm layer has invalid unit count %d", l.Units)
	}
	width := 4 * l.Units
	if len(l.Kernel) == 0 {
		return fmt.Errorf("lstm layer has no kernel")
	}
	for i, row := range l.Kernel {
		if len(row) != width {
			return fmt.Errorf("lstm kernel row %d has width %d, want %d", i, len(row), width)
		}
	}
	if len(l.Recurrent) != l.Units {
		return fmt.Errorf("lstm recurrent kernel has %d rows, want %d", len(l.Recurrent), l.Units)
	}
	for i, row := range l.Recurrent {
		if len(row) != width {
			return fmt.Errorf("lstm recurrent row %d has width %d, want %d", i, len(row), width)
		}
	}
	if len(l.Bias) != width {
		return fmt.Errorf("lstm bias has length %d, want %d", len(l.Bias), width)
	}
	return nil
}

// run folds the sequence through the recurrence and returns the final hidden
// state. Gate order per row: i, f, c, o, each of width Units.
func (l *LSTMLayer) run(seq [][]float64) ([]float64, error) {
	h := make([]float64, l.Units)
	c := make([]float64, l.Units)
	gates := make([]float64, 4*l.Units)

	for t, x := range seq {
		if len(x) != len(l.Kernel) {
			return nil, fmt.Errorf("lstm expects %d features per step, got %d at step %d", len(l.Kernel), len(x), t)
		}

		copy(gates, l.Bias)
		for i, xi := range x {
			if xi == 0 {
				continue
			}
			row := l.Kernel[i]
			for j, w := range row {
				gates[j] += xi * w
			}
		}
		for i, hi := range h {
			if hi == 0 {
				continue
			}
			row := l.Recurrent[i]
			for j, w := range row {
				gates[j] += hi * w
			}
		}

		for u := 0; u < l.Units; u++ {
			in := sigmoid(gates[u])
			forget := sigmoid(gates[l.Units+u])
			cand := math.Tanh(gates[2*l.Units+u])
			out := sigmoid(gates[3*l.Units+u])

			c[u] = forget*c[u] + in*cand
			h[u] = out * math.Tanh(c[u])
		}
	}
	return h, nil
}

// TwoInputClassifier scores a normalized window matrix plus a normalized
// time-context vector and yields a probability vector over classes. The
// forward pass touches only fitted weights, so concurrent invocations are
// safe.
type TwoInputClassifier struct {
	SequenceLSTM LSTMLayer `json:"sequence_lstm"`
	TimeDense    Dense     `json:"time_dense"`
	MergeDense   Dense     `json:"merge_dense"`
	Output       Dense     `json:"output"`
}

// NumClasses returns the width of the output distribution.
func (m *TwoInputClassifier) NumClasses() int {
	return m.Output.OutputSize()
}

// SequenceFeatures returns the per-timestep feature count the model expects.
func (m *TwoInputClassifier) SequenceFeatures() int {
	return m.SequenceLSTM.InputSize()
}

// TimeFeatures returns the time-context feature count the model expects.
func (m *TwoInputClassifier) TimeFeatures() int {
	return m.TimeDense.InputSize()
}

// Validate checks layer shapes line up end to end.
func (m *TwoInputClassifier) Validate() error {
	if err := m.SequenceLSTM.validate(); err != nil {
		return err
	}
	if err := m.TimeDense.validate("time_dense"); err != nil {
		return err
	}
	if err := m.MergeDense.validate("merge_dense"); err != nil {
		return err
	}
	if err := m.Output.validate("output"); err != nil {
		return err
	}
	merged := m.SequenceLSTM.Units + m.TimeDense.OutputSize()
	if m.MergeDense.InputSize() != merged {
		return fmt.Errorf("merge layer expects %d inputs, branches produce %d", m.MergeDense.InputSize(), merged)
	}
	if m.Output.InputSize() != m.MergeDense.OutputSize() {
		return fmt.Errorf("output layer expects %d inputs, merge layer produces %d", m.Output.InputSize(), m.MergeDense.OutputSize())
	}
	if m.Output.Activation != "softmax" {
		return fmt.Errorf("output layer must use softmax, has %q", m.Output.Activation)
	}
	return nil
}

// ConcurrentSafe reports that Predict may run concurrently: the forward pass
// reads fitted weights and touches no shared mutable state.
func (m *TwoInputClassifier) ConcurrentSafe() bool {
	return true
}

// Predict runs one forward pass. Deterministic and side-effect-free for
// fixed inputs.
func (m *TwoInputClassifier) Predict(window [][]float64, timeVec []float64) ([]float64, error) {
	if len(window) == 0 {
		return nil, fmt.Errorf("empty window")
	}

	seqState, err := m.SequenceLSTM.run(window)
	if err != nil {
		return nil, err
	}
	timeState, err := m.TimeDense.apply(timeVec)
	if err != nil {
		return nil, err
	}

	merged := make([]float64, 0, len(seqState)+len(timeState))
	merged = append(merged, seqState...)
	merged = append(merged, timeState...)

	hidden, err := m.MergeDense.apply(merged)
	if err != nil {
		return nil, err
	}
	return m.Output.apply(hidden)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax normalizes in place, shifting by the max for numerical stability.
func softmax(v []float64) {
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	var sum float64
	for i, x := range v {
		e := math.Exp(x - max)
		v[i] = e
		sum += e
	}
	for i := range v {
		v[i] /= sum
	}
}
