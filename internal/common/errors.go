// Package common defines shared constants and sentinel errors used across
// the client, server and admin tool. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")

	// attendance errors
	ErrSequenceRejected = errors.New("event sequence rejected")
	ErrClockNotAllowed  = errors.New("clock action not allowed in current status")

	// auth errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// report errors
	ErrStorageUnavailable = errors.New("report storage is not configured")
)
