package provider

import (
    "context"
    "errors"
    "fmt"
)

// Reason classifies why an upstream call produced no usable payload.
type Reason string

const (
    ReasonNoCredential Reason = "no_credential"
    ReasonTimeout      Reason = "timeout"
    ReasonNetwork      Reason = "network"
    ReasonStatus       Reason = "status"
    ReasonDecode       Reason = "decode"
)

// Error is returned for every failed provider call. Callers treat it as
// "skip this tier", never as a request failure.
type Error struct {
    Provider   string
    Reason     Reason
    StatusCode int
    Body       string
    Err        error
}

func (e *Error) Error() string { return e.Provider + ": " + e.Detail() }

// Detail is the error message without the provider prefix.
func (e *Error) Detail() string {
    switch {
    case e.Reason == ReasonStatus:
        return fmt.Sprintf("HTTP %d", e.StatusCode)
    case e.Err != nil:
        return fmt.Sprintf("%s: %v", e.Reason, e.Err)
    default:
        return string(e.Reason)
    }
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNoCredential is wrapped by errors for tiers whose credential is not configured.
var ErrNoCredential = errors.New("credential not configured")

// IsReason reports whether err is a provider Error with the given reason.
func IsReason(err error, r Reason) bool {
    var pe *Error
    if errors.As(err, &pe) {
        return pe.Reason == r
    }
    return false
}

// classify maps a transport error to a provider Error. callCtx is the
// per-call context whose deadline enforces the provider timeout.
func classify(name string, callCtx context.Context, err error) *Error {
    if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
        return &Error{Provider: name, Reason: ReasonTimeout, Err: err}
    }
    return &Error{Provider: name, Reason: ReasonNetwork, Err: err}
}
