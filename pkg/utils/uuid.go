package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new random identifier
func NewID() string {
	return uuid.New().String()
}

// NewPrefixedID generates a compact identifier such as "grp_3f2a..."
func NewPrefixedID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
