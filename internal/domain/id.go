package domain

import "github.com/google/uuid"

// generateID returns a random session or snapshot identifier.
func generateID() string {
	return uuid.NewString()
}
