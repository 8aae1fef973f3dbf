package domain

import "errors"

// Error taxonomy for the service. Components wrap these sentinels with
// fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is without inspecting messages.
var (
	// ErrMissingToVideoID is returned when a click event has no target
	// video ID. Detected before any I/O; maps to a 400 response.
	ErrMissingToVideoID = errors.New("missing toVideoId")

	// ErrUpstream is returned when the external video catalog is
	// unreachable, times out, or returns a malformed response.
	ErrUpstream = errors.New("video catalog unavailable")

	// ErrStorage is returned when the click store rejects a read or write.
	ErrStorage = errors.New("click store unavailable")
)
