package domain

import "errors"

// Sentinel errors for classifying failures across the client, scheduler and
// agent. Callers wrap these so the CLI can handle error categories uniformly:
//
//	return fmt.Errorf("failed to list stores: %w", domain.ErrRejected)
var (
	// ErrUnauthorized indicates the session is missing, expired, or the
	// credentials were refused.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the remote service throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrRejected indicates the remote service answered with an
	// unsuccessful response envelope (success: false).
	ErrRejected = errors.New("request rejected by server")

	// ErrNotLoggedIn indicates an API call was attempted without a session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrStoreLookup indicates the store lookup that follows a successful
	// login failed. Without stores no location can be resolved, so this is
	// fatal for the login attempt.
	ErrStoreLookup = errors.New("store lookup failed")

	// ErrEmptySchedule indicates an attempt to run an empty action set.
	ErrEmptySchedule = errors.New("schedule has no actions")

	// ErrInvalidAction indicates an action without a keyword or location.
	ErrInvalidAction = errors.New("invalid action")

	// ErrAlreadyRunning indicates a schedule is already running.
	ErrAlreadyRunning = errors.New("schedule already running")
)
