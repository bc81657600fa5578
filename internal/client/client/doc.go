// Package client contains client-side building blocks for punchclock.
//
// # Overview
//
// The package provides:
//  1. The API contract the terminal client uses (see the Client interface).
//  2. A gRPC implementation (see GRPCClient) that manages a connection,
//     injects the access token via an interceptor, transparently refreshes
//     expired tokens, and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database for drafts and remembered settings.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrRejected, and from package common
// ErrForbidden, ErrInvalidInput and ErrorNotFound.
package client
