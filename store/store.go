// Package store persists calendar events and one-shot reminders for the
// scheduling subsystem. The Store contract centers on the compare-and-set
// operations the dedup sweeps rely on: MarkReminderSent and
// AdvanceEventNotified succeed at most once per state transition, so
// concurrent sweeps never double-dispatch a notification.
package store

import (
	"context"
	"errors"
	"time"
)

// Importance classifies how aggressively an event's deadlines are tracked.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// DefaultReminderInterval is the cooldown between deadline notifications for
// the same event when none is configured.
const DefaultReminderInterval = 4 * time.Hour

// ErrNotFound is returned when the referenced event or reminder does not exist.
var ErrNotFound = errors.New("not found")

// Event is a calendar entry with deadline tracking state.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Start       time.Time  `json:"start_time"`
	End         time.Time  `json:"end_time"`
	Importance  Importance `json:"importance"`
	Tags        []string   `json:"tags,omitempty"`

	// LastNotifiedOn is the zero time until the first deadline notification
	// for this event is dispatched.
	LastNotifiedOn time.Time `json:"last_notified_on,omitzero"`

	// ReminderInterval is the minimum gap between deadline notifications.
	// Zero means DefaultReminderInterval.
	ReminderInterval time.Duration `json:"reminder_interval,omitempty"`
}

// Cooldown returns the effective gap between deadline notifications.
func (e Event) Cooldown() time.Duration {
	if e.ReminderInterval > 0 {
		return e.ReminderInterval
	}
	return DefaultReminderInterval
}

// Ongoing reports whether the event is in progress at the given instant.
func (e Event) Ongoing(now time.Time) bool {
	return !now.Before(e.Start) && now.Before(e.End)
}

// Reminder is a one-shot notification scheduled for a fixed instant.
type Reminder struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	FireTime time.Time `json:"fire_time"` // UTC
	Sent     bool      `json:"sent"`
}

// Store is the persistence contract for events and reminders. All reads
// return copies; mutation happens only through the CAS operations.
type Store interface {
	// CreateEvent persists a new event. An empty ID is assigned.
	CreateEvent(ctx context.Context, ev Event) (Event, error)

	// CreateReminder persists a new unsent reminder. An empty ID is assigned.
	CreateReminder(ctx context.Context, r Reminder) (Reminder, error)

	// GetEvent returns the event by id or ErrNotFound.
	GetEvent(ctx context.Context, id string) (Event, error)

	// UpcomingEvents returns events starting in (now, now+window], ordered
	// by start time.
	UpcomingEvents(ctx context.Context, now time.Time, window time.Duration) ([]Event, error)

	// OngoingEvents returns events with Start <= now < End, ordered by start
	// time.
	OngoingEvents(ctx context.Context, now time.Time) ([]Event, error)

	// UpcomingReminders returns unsent reminders firing in (now, now+window],
	// ordered by fire time.
	UpcomingReminders(ctx context.Context, now time.Time, window time.Duration) ([]Reminder, error)

	// DueReminders returns unsent reminders with FireTime <= now+lookahead,
	// ordered by fire time. Overdue reminders are included so missed sweeps
	// catch up.
	DueReminders(ctx context.Context, now time.Time, lookahead time.Duration) ([]Reminder, error)

	// MarkReminderSent flips Sent from false to true. It returns true when
	// this call performed the transition and false when the reminder was
	// already sent. ErrNotFound if the id is unknown.
	MarkReminderSent(ctx context.Context, id string) (bool, error)

	// AdvanceEventNotified sets LastNotifiedOn to now if it still equals
	// prev. It returns true when this call performed the transition.
	// ErrNotFound if the id is unknown.
	AdvanceEventNotified(ctx context.Context, id string, prev, now time.Time) (bool, error)
}
