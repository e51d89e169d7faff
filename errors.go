package duocache

import (
	"errors"
	"fmt"
)

// ErrValueMissing marks a valid policy whose paired value is gone from the
// store. It signals store inconsistency, not a cold cache.
var ErrValueMissing = errors.New("duocache: policy present but value missing")

// InvalidateError reports the outcome of deleting a value/policy pair. Both
// deletions are always attempted; either side may have failed.
type InvalidateError struct {
	Key       string
	ValueErr  error
	PolicyErr error
}

func (e *InvalidateError) Error() string {
	switch {
	case e.ValueErr != nil && e.PolicyErr != nil:
		return fmt.Sprintf("invalidate %q failed: value and policy delete failed: value=%v; policy=%v",
			e.Key, e.ValueErr, e.PolicyErr)
	case e.ValueErr != nil:
		return fmt.Sprintf("invalidate %q: value delete failed: %v", e.Key, e.ValueErr)
	case e.PolicyErr != nil:
		return fmt.Sprintf("invalidate %q: policy delete failed: %v", e.Key, e.PolicyErr)
	default:
		return fmt.Sprintf("invalidate %q: unknown error", e.Key)
	}
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.ValueErr != nil {
		errs = append(errs, e.ValueErr)
	}
	if e.PolicyErr != nil {
		errs = append(errs, e.PolicyErr)
	}
	return errs
}

// PersistError reports the outcome of writing a fresh value/policy pair.
// Both writes are always attempted; either side may have failed.
type PersistError struct {
	Key       string
	ValueErr  error
	PolicyErr error
}

func (e *PersistError) Error() string {
	switch {
	case e.ValueErr != nil && e.PolicyErr != nil:
		return fmt.Sprintf("persist %q failed: value and policy write failed: value=%v; policy=%v",
			e.Key, e.ValueErr, e.PolicyErr)
	case e.ValueErr != nil:
		return fmt.Sprintf("persist %q: value write failed: %v", e.Key, e.ValueErr)
	case e.PolicyErr != nil:
		return fmt.Sprintf("persist %q: policy write failed: %v", e.Key, e.PolicyErr)
	default:
		return fmt.Sprintf("persist %q: unknown error", e.Key)
	}
}

func (e *PersistError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.ValueErr != nil {
		errs = append(errs, e.ValueErr)
	}
	if e.PolicyErr != nil {
		errs = append(errs, e.PolicyErr)
	}
	return errs
}

// InconsistencyError wraps a cached-stage failure that occurred after the
// policy validated: the paired value was missing or unreadable. The pair has
// been invalidated by the time this error reaches the caller.
type InconsistencyError struct {
	Key string
	Err error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("cache inconsistency at %q: %v", e.Key, e.Err)
}

func (e *InconsistencyError) Unwrap() error { return e.Err }

// TransformError carries the deferred stage errors of one pipeline run. At
// least one of Cached/Fresh is non-nil.
type TransformError struct {
	Key    string
	Cached error // cached-stage error, delayed until the fresh stage finished
	Fresh  error // producer or persistence error
}

func (e *TransformError) Error() string {
	switch {
	case e.Cached != nil && e.Fresh != nil:
		return fmt.Sprintf("transform %q: cached stage: %v; fresh stage: %v", e.Key, e.Cached, e.Fresh)
	case e.Cached != nil:
		return fmt.Sprintf("transform %q: cached stage: %v", e.Key, e.Cached)
	case e.Fresh != nil:
		return fmt.Sprintf("transform %q: fresh stage: %v", e.Key, e.Fresh)
	default:
		return fmt.Sprintf("transform %q: unknown error", e.Key)
	}
}

func (e *TransformError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Cached != nil {
		errs = append(errs, e.Cached)
	}
	if e.Fresh != nil {
		errs = append(errs, e.Fresh)
	}
	return errs
}
