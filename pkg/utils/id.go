package utils

import (
	"github.com/google/uuid"
)

// NewID returns an opaque random record identifier. Collision probability is
// negligible; ids carry no ordering or meaning.
func NewID() string {
	return uuid.NewString()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
