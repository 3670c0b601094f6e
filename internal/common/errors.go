package common

import "errors"

// Error taxonomy shared across components. Handlers map these to HTTP
// status codes; services wrap them with context via fmt.Errorf("%w").
var (
	// ErrInvalidInput marks a caller error (missing or malformed parameter).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a legitimate empty result (e.g. unknown ticker),
	// not a fault.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable marks a provider call that failed after
	// retries. Components recover from it locally by falling back or
	// nulling the field; it only reaches the caller when no provider
	// could serve a required value.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrAggregationFailure marks an unexpected internal fault while
	// assembling a result.
	ErrAggregationFailure = errors.New("aggregation failure")
)
