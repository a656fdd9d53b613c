package util

import (
	"github.com/google/uuid"
)

// NewID returns a fresh random identifier in canonical UUID form.
func NewID() string {
	return uuid.NewString()
}

// ParseID parses a canonical UUID string. Returns the zero UUID and false
// when the value is empty or malformed.
func ParseID(value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}
