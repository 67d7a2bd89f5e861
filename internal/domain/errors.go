package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the library server is unreachable
	ErrServerOffline = errors.New("library server is unreachable")

	// ErrAuthFailed indicates the credentials or token were rejected
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrNotAuthenticated indicates a protected action was attempted
	// without a session
	ErrNotAuthenticated = errors.New("not authenticated")
)
