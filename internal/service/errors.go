package service

import "errors"

var (
	// ErrNoUser means a mutating call arrived before a user was bound to
	// the sync engine.
	ErrNoUser = errors.New("no authenticated user")
	// ErrItemNotFound means the referenced item is not in the local cache.
	ErrItemNotFound = errors.New("item not found in cache")
	// ErrSpaceNotFound means the referenced space is not in the local cache.
	ErrSpaceNotFound = errors.New("space not found in cache")
	// ErrEmptyDraft means the creation draft carries nothing to save.
	ErrEmptyDraft = errors.New("nothing to save")
	// ErrEmptyShare means the OS share payload carried no usable field.
	ErrEmptyShare = errors.New("empty share payload")
)
