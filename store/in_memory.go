package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a process-local Store guarded by a single mutex, which
// makes both CAS operations trivially atomic. Suitable for tests and
// single-node deployments.
type InMemoryStore struct {
	mu        sync.Mutex
	events    map[string]Event
	reminders map[string]Reminder
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		events:    make(map[string]Event),
		reminders: make(map[string]Reminder),
	}
}

// CreateEvent persists a new event, assigning an id and defaulting the
// importance when unset.
func (s *InMemoryStore) CreateEvent(_ context.Context, ev Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Importance == "" {
		ev.Importance = ImportanceMedium
	}
	s.events[ev.ID] = ev
	return ev, nil
}

// CreateReminder persists a new unsent reminder. Fire times are normalized
// to UTC.
func (s *InMemoryStore) CreateReminder(_ context.Context, r Reminder) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.FireTime = r.FireTime.UTC()
	r.Sent = false
	s.reminders[r.ID] = r
	return r, nil
}

// GetEvent returns the event by id or ErrNotFound.
func (s *InMemoryStore) GetEvent(_ context.Context, id string) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return ev, nil
}

// UpcomingEvents returns events starting in (now, now+window], ordered by
// start time.
func (s *InMemoryStore) UpcomingEvents(_ context.Context, now time.Time, window time.Duration) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	limit := now.Add(window)
	for _, ev := range s.events {
		if ev.Start.After(now) && !ev.Start.After(limit) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// OngoingEvents returns events in progress at now, ordered by start time.
func (s *InMemoryStore) OngoingEvents(_ context.Context, now time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Ongoing(now) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// UpcomingReminders returns unsent reminders firing in (now, now+window],
// ordered by fire time.
func (s *InMemoryStore) UpcomingReminders(_ context.Context, now time.Time, window time.Duration) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Reminder
	limit := now.Add(window)
	for _, r := range s.reminders {
		if !r.Sent && r.FireTime.After(now) && !r.FireTime.After(limit) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireTime.Before(out[j].FireTime) })
	return out, nil
}

// DueReminders returns unsent reminders with FireTime <= now+lookahead,
// including overdue ones, ordered by fire time.
func (s *InMemoryStore) DueReminders(_ context.Context, now time.Time, lookahead time.Duration) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Reminder
	limit := now.Add(lookahead)
	for _, r := range s.reminders {
		if !r.Sent && !r.FireTime.After(limit) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireTime.Before(out[j].FireTime) })
	return out, nil
}

// MarkReminderSent atomically flips Sent from false to true.
func (s *InMemoryStore) MarkReminderSent(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return false, ErrNotFound
	}
	if r.Sent {
		return false, nil
	}
	r.Sent = true
	s.reminders[id] = r
	return true, nil
}

// AdvanceEventNotified atomically sets LastNotifiedOn to now if it still
// equals prev.
func (s *InMemoryStore) AdvanceEventNotified(_ context.Context, id string, prev, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[id]
	if !ok {
		return false, ErrNotFound
	}
	if !ev.LastNotifiedOn.Equal(prev) {
		return false, nil
	}
	ev.LastNotifiedOn = now
	s.events[id] = ev
	return true, nil
}
