package client

import "errors"

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	// ErrRejected is returned when the server refuses a day or a clock action;
	// the wrapped message carries the reason.
	ErrRejected = errors.New("rejected")
)
