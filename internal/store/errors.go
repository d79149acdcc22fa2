package store

import "errors"

var (
	// ErrKeyNotFound is returned by low-level kv reads when the requested
	// key has never been written.
	ErrKeyNotFound = errors.New("key not found")
)
