package provider

import (
	"errors"
	"fmt"
)

// Failure classification for upstream calls. The refresh service switches
// the whole cycle to fallback on either kind from the primary snapshot,
// and degrades a single symbol's ratio on either kind from a kline call.
var (
	// ErrUnreachable covers network errors, timeouts and non-2xx statuses.
	ErrUnreachable = errors.New("upstream unreachable")
	// ErrMalformedResponse covers responses of an unexpected shape or type.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// FetchError carries the classification alongside the underlying cause.
// errors.Is matches both the kind sentinel and the cause.
type FetchError struct {
	Kind error
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unreachable(op string, err error) error {
	return &FetchError{Kind: ErrUnreachable, Op: op, Err: err}
}

func malformed(op string, err error) error {
	return &FetchError{Kind: ErrMalformedResponse, Op: op, Err: err}
}
