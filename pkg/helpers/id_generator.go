package helpers

import (
	"github.com/google/uuid"
)

// IDGenerator generates identifiers for configuration entries
type IDGenerator interface {
	GenerateUUID() string
}

type uuidGenerator struct{}

// NewIDGenerator creates a new UUID v4 generator
func NewIDGenerator() IDGenerator {
	return uuidGenerator{}
}

// GenerateUUID generates a UUID v4
func (uuidGenerator) GenerateUUID() string {
	return uuid.New().String()
}
