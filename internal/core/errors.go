package core

import "errors"

// Generation failure taxonomy. All of these are recovered inside the
// orchestrator and downgraded to the template fallback; none reach callers.
var (
	// ErrBackendUnavailable means no generative backend is configured or
	// reachable for the process lifetime.
	ErrBackendUnavailable = errors.New("generative backend unavailable")

	// ErrBackendTimeout means the backend did not answer within the
	// generation timeout ceiling.
	ErrBackendTimeout = errors.New("generative backend timed out")

	// ErrBackendError means the backend was reachable but returned an
	// error or an unusable transport response.
	ErrBackendError = errors.New("generative backend error")

	// ErrInvalidOutput means the backend responded but the content failed
	// shape or length validation.
	ErrInvalidOutput = errors.New("backend output failed validation")
)
