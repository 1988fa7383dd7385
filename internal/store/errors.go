package store

import "errors"

var (
	// ErrMissingURL rejects postings without the unique key before they can
	// reach the database.
	ErrMissingURL = errors.New("posting url is required")

	// ErrNotFound indicates no row matched the requested identifier.
	ErrNotFound = errors.New("posting not found")

	// ErrSchemaMismatch indicates the database was created by a different
	// schema version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
