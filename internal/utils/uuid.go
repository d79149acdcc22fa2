// Package utils provides general-purpose helper utilities used across
// different parts of the application: UUID generation for client-minted ids
// and JWT claim extraction for the shared-auth bridge.
package utils

import "github.com/google/uuid"

type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered UUIDv7 string, falling back to a random
// UUIDv4 if the monotonic source fails. Time-ordered ids keep freshly created
// rows roughly clustered in the remote store's index.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
