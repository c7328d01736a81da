// Package store holds the durable stores: PostgreSQL for user accounts
// and MongoDB for link history. Callers match failures with errors.Is
// against the sentinels below.
package store

import "errors"

var (
	// ErrNotFound means no row/document matched the lookup.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means a unique field (username, email) is already taken.
	ErrDuplicate = errors.New("already exists")
)
