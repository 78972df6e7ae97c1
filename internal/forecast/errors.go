package forecast

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is returned for every request while the service runs in
// degraded mode, i.e. the model artifacts failed to load at startup.
var ErrModelUnavailable = errors.New("forecast model is not loaded")

// ValidationError rejects a request before any computation happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid forecast request: " + e.Reason
}

// SchemaMismatchError signals an inconsistency between the feature schema,
// the synthesized features and the fitted transforms. It indicates a stale or
// incompatible artifact bundle, so it is never recoverable per request.
type SchemaMismatchError struct {
	Stage   string // "sequence" or "time"
	Missing string // feature name absent from the synthesized values, if any
	Want    int    // expected feature count
	Got     int    // actual feature count
}

func (e *SchemaMismatchError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("schema mismatch in %s features: feature %q is missing", e.Stage, e.Missing)
	}
	return fmt.Sprintf("schema mismatch in %s features: expected %d features, got %d", e.Stage, e.Want, e.Got)
}
