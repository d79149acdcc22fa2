package adapter

import "errors"

var (
	ErrUnauthorized = errors.New("client unauthorized")
	ErrConflict     = errors.New("row conflict")
	ErrNotFound     = errors.New("row not found")
)
