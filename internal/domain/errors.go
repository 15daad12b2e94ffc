package domain

import "errors"

// Error taxonomy shared by all services. The HTTP adapter maps these to
// status codes with errors.Is; messages surfaced to clients never carry
// upstream detail.
var (
	// ErrInvalidInput covers malformed JSON and failed domain validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited means the caller exhausted its budget for the window.
	ErrRateLimited = errors.New("rate limited")
	// ErrMisconfigured is an operator error: a required key is missing or
	// rejected by the upstream.
	ErrMisconfigured = errors.New("service misconfigured")
	// ErrUnavailable is the soft variant used by the URL scanner when its
	// upstream key is absent.
	ErrUnavailable = errors.New("service unavailable")
	// ErrUpstream covers transport failures, timeouts, and unexpected
	// upstream statuses. Retryable by the client.
	ErrUpstream = errors.New("upstream error")
	// ErrUpstreamRateLimited is the upstream's own 429, passed through.
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
)
