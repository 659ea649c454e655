// ABOUTME: Calendar API client setup for Google Calendar integration
// ABOUTME: Creates an authenticated Calendar service from an OAuth HTTP client
package sync

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewCalendarClient creates a Google Calendar API service. Extra options let
// tests point the service at a fake endpoint.
func NewCalendarClient(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*calendar.Service, error) {
	if client == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	service, err := calendar.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return service, nil
}
