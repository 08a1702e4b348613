package homeassistant

import "context"

// Source retrieves the current state of a monitored entity.
// This decouples the application logic from the HTTP client.
type Source interface {
	// EntityState returns the entity's current state, lowercased.
	EntityState(ctx context.Context, entityID string) (string, error)
}
