package utils

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh 24-hex system identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsSystemID reports whether s is shaped like a system identifier.
func IsSystemID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
