package webhook

import "context"

// Client defines an interface for delivering messages to webhook destinations.
// This helps in decoupling the application logic from the HTTP transport.
type Client interface {
	// Send delivers message to url. targetID, when non-empty, addresses the
	// message to a specific recipient.
	Send(ctx context.Context, url, message, targetID string) error
}
