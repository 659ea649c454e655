// ABOUTME: Google People API client for contacts import
// ABOUTME: Creates an authenticated People service from an OAuth HTTP client
package sync

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// NewPeopleClient creates a new Google People API client.
func NewPeopleClient(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*people.Service, error) {
	if client == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	service, err := people.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return service, nil
}
