package domain

import "errors"

// Error kinds surfaced by the domain services. Callers match with
// errors.Is to pick an HTTP status; wrapped messages carry the detail.
var (
	// ErrUpstream marks a failed fetch: BMKG unreachable, timed out, or
	// returned a non-2xx status.
	ErrUpstream = errors.New("upstream fetch failed")

	// ErrParse marks an upstream payload that could not be normalized
	// into a canonical record.
	ErrParse = errors.New("upstream payload unparseable")

	// ErrValidation marks a malformed caller-supplied identifier,
	// rejected before any upstream call.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks a well-formed identifier that denotes nothing.
	ErrNotFound = errors.New("not found")
)
