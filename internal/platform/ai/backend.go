// Package ai provides the generative-text backend used by the insight
// pipeline. The backend is treated as an untrusted collaborator: every
// response is schema-validated before use, and callers bound each call with
// a deadline. Grounded on a single narrow interface so tests can inject a
// deterministic stub.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Request is a single structured-output generation request. Name identifies
// the prompt template (used for stubbing and metrics), System and Prompt are
// the instruction text, and Schema is a JSON Schema document the reply must
// conform to.
type Request struct {
	Name   string
	System string
	Prompt string
	Schema string
}

// Backend produces a raw JSON document for a Request. Implementations must be
// safe for concurrent use: the dispatcher fires five insight requests for a
// claim in parallel.
type Backend interface {
	Complete(ctx context.Context, req Request) ([]byte, error)
}

// FailureKind classifies why a backend call produced no usable output.
type FailureKind string

const (
	FailureUnavailable FailureKind = "unavailable"
	FailureTimeout     FailureKind = "timeout"
	FailureMalformed   FailureKind = "malformed"
)

// BackendError carries the failure classification across the generator
// boundary so callers never have to sniff strings out of payload text.
type BackendError struct {
	Kind FailureKind
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ai backend %s: %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Classify wraps err in a BackendError, mapping context deadline expiry to
// FailureTimeout. A nil err returns nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &BackendError{Kind: FailureTimeout, Err: err}
	}
	return &BackendError{Kind: FailureUnavailable, Err: err}
}

// KindOf extracts the failure classification from an error chain, defaulting
// to FailureUnavailable.
func KindOf(err error) FailureKind {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	return FailureUnavailable
}
