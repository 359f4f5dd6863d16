package alarms

import "errors"

var (
	// ErrNotAuthorized is returned when the external alarm subsystem has denied,
	// or does not grant, permission to schedule alarms.
	ErrNotAuthorized = errors.New("not authorized to schedule alarms")

	// ErrUnknownAuthState is returned when the subsystem reports an
	// authorization state this service does not recognize.
	ErrUnknownAuthState = errors.New("unknown authorization state")

	// ErrInvalidTime is returned for command arguments that cannot be acted
	// upon, such as malformed times, non-positive durations or identities in
	// the wrong lifecycle state.
	ErrInvalidTime = errors.New("invalid time or alarm state")

	// ErrNoWakeUpTimeConfigured is returned when wake-up preferences contain no
	// time at all.
	ErrNoWakeUpTimeConfigured = errors.New("no wake-up time configured")
)
