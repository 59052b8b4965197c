// Package domain defines domain-level failure types for the rankings feature.
package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies a market-data failure. "No data" is not a kind:
// an empty-but-successful snapshot is a valid terminal state, not an error.
type FailureKind string

const (
	// FailureNetwork covers connection errors, DNS failures and timeouts.
	FailureNetwork FailureKind = "network"
	// FailureAPI covers non-success HTTP statuses from the exchange.
	FailureAPI FailureKind = "api"
	// FailureParse covers malformed or unexpectedly shaped payloads.
	FailureParse FailureKind = "parse"
	// FailureAuth covers missing or rejected credentials. It is raised
	// before any network call when a signed variant has no credentials.
	FailureAuth FailureKind = "auth"
)

// Failure is the typed error value the market data client surfaces and
// the pipeline translates into its own terminal Failed state. It never
// crosses the pipeline boundary as a panic.
type Failure struct {
	Kind   FailureKind
	Detail string
	Err    error // Underlying cause, if any
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure builds a Failure with an underlying cause.
func NewFailure(kind FailureKind, detail string, err error) *Failure {
	return &Failure{Kind: kind, Detail: detail, Err: err}
}

// Failuref builds a cause-less Failure with a formatted detail.
func Failuref(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the FailureKind from an error chain. The second
// return is false when the chain carries no *Failure.
func KindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
