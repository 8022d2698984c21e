// Package assistant assembles the personal-assistant agent roster on top of
// the generic orchestration engine: prompts, collaborator interfaces, the
// tools binding them, and the graph wiring the agents together.
package assistant

import (
	"context"
	"time"
)

// Email is one mailbox message as seen by the agents.
type Email struct {
	ID       string    `json:"id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Received time.Time `json:"received"`
	Unread   bool      `json:"unread"`
}

// Mailbox is the email collaborator. Implementations talk to Gmail or any
// other provider; the module only depends on this surface.
type Mailbox interface {
	// Unread returns unread inbox messages, newest first.
	Unread(ctx context.Context) ([]Email, error)
	// Get returns one message by id.
	Get(ctx context.Context, id string) (Email, error)
	// MarkRead flags the message as read.
	MarkRead(ctx context.Context, id string) error
	// Search returns messages matching the free-text query.
	Search(ctx context.Context, query string) ([]Email, error)
	// CreateDraft stores a draft reply and returns its id.
	CreateDraft(ctx context.Context, to, subject, body string) (string, error)
}

// CalendarEntry is one entry of the external calendar collaborator. Distinct
// from store.Event: entries live in the user's calendar service, events in
// the local deadline-tracking store.
type CalendarEntry struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
}

// Calendar is the calendar collaborator.
type Calendar interface {
	// Upcoming returns up to max entries starting after now.
	Upcoming(ctx context.Context, max int) ([]CalendarEntry, error)
	// Create adds an entry and returns it with its assigned id.
	Create(ctx context.Context, e CalendarEntry) (CalendarEntry, error)
	// Delete removes an entry by id.
	Delete(ctx context.Context, id string) error
}

// Weather is the weather lookup collaborator.
type Weather interface {
	// Current returns a human-readable conditions summary for the location.
	Current(ctx context.Context, location string) (string, error)
}
