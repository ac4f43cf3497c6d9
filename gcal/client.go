// ABOUTME: Google Calendar API adapter over the primary calendar
// ABOUTME: List/create/patch/delete events from a stored OAuth token record
package gcal

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harperreed/daydash/models"
)

const (
	primaryCalendar = "primary"
	defaultTimeZone = "America/New_York"
	defaultWindow   = 3 // days
)

var errNoRefreshToken = errors.New("no refresh token stored")

// Client wraps the provider API behind a typed interface. It is built from a
// stored token record and never refreshes the token itself; callers must
// pre-refresh an expired record before constructing a Client.
type Client struct {
	svc *calendar.Service
}

func NewClient(ctx context.Context, rec *models.TokenRecord) (*Client, error) {
	if rec == nil {
		return nil, errors.New("token record cannot be nil")
	}

	// A static source deliberately disables transparent refresh-and-retry.
	src := oauth2.StaticTokenSource(tokenFromRecord(rec))
	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, providerErr("init", err)
	}

	return &Client{svc: svc}, nil
}

// ListUpcoming returns events between now and now+windowDays on the primary
// calendar, recurring instances expanded, ordered by start time.
func (c *Client) ListUpcoming(ctx context.Context, maxResults, windowDays int) ([]*calendar.Event, error) {
	if windowDays <= 0 {
		windowDays = defaultWindow
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	now := time.Now()
	events, err := c.svc.Events.List(primaryCalendar).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.AddDate(0, 0, windowDays).Format(time.RFC3339)).
		MaxResults(int64(maxResults)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, providerErr("list", err)
	}

	return events.Items, nil
}

// CreateEvent inserts a singleton timed event on the primary calendar.
func (c *Client) CreateEvent(ctx context.Context, summary, description string, start, end time.Time, timeZone string) (*calendar.Event, error) {
	if timeZone == "" {
		timeZone = defaultTimeZone
	}

	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: timeZone,
		},
	}

	created, err := c.svc.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		return nil, providerErr("create", err)
	}

	return created, nil
}

// EventChanges describes a partial update. Zero-valued fields are left
// untouched on the provider side. Note the quirk this inherits: an
// empty-string Description cannot be distinguished from "absent", so it
// cannot be used to clear the field. Known limitation, kept for
// compatibility.
type EventChanges struct {
	Summary     string
	Description string
	Start       *time.Time
	End         *time.Time
	TimeZone    string
}

// UpdateEvent patches only the fields present in changes.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, changes EventChanges) (*calendar.Event, error) {
	timeZone := changes.TimeZone
	if timeZone == "" {
		timeZone = defaultTimeZone
	}

	patch := &calendar.Event{}
	if changes.Summary != "" {
		patch.Summary = changes.Summary
	}
	if changes.Description != "" {
		patch.Description = changes.Description
	}
	if changes.Start != nil {
		patch.Start = &calendar.EventDateTime{
			DateTime: changes.Start.Format(time.RFC3339),
			TimeZone: timeZone,
		}
	}
	if changes.End != nil {
		patch.End = &calendar.EventDateTime{
			DateTime: changes.End.Format(time.RFC3339),
			TimeZone: timeZone,
		}
	}

	updated, err := c.svc.Events.Patch(primaryCalendar, eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, providerErr("update", err)
	}

	return updated, nil
}

// DeleteEvent removes an event. A not-found response counts as success so
// deletes stay idempotent from the caller's perspective.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(primaryCalendar, eventID).Context(ctx).Do()
	if err != nil {
		pe := providerErr("delete", err)
		if pe.StatusCode == 404 || pe.StatusCode == 410 {
			return nil
		}
		return pe
	}
	return nil
}
