package activities

import (
	"context"
	"fmt"
)

// API is the remote signup service consumed by the client.
// authHeader is the full Authorization header value, e.g. "Basic dXNlcjpwYXNz".
type API interface {
	// List returns every activity, preserving the server's ordering
	List(ctx context.Context) (Catalog, error)

	// AuthStatus verifies the credentials carried by authHeader
	AuthStatus(ctx context.Context, authHeader string) (Teacher, error)

	// Signup registers email for the activity and returns the server's message
	Signup(ctx context.Context, authHeader, activity, email string) (string, error)

	// Unregister removes email from the activity and returns the server's message
	Unregister(ctx context.Context, authHeader, activity, email string) (string, error)
}

// APIError is a non-2xx response from the API. Detail holds the server's
// structured "detail" field when one was sent.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}
