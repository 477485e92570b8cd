package pkguid

import "github.com/google/uuid"

// UUID generates time-ordered (version 7) UUID strings.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUIDv7 string, falling back to a random v4 when the
// clock-based generator fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
