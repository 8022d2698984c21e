package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/maestro-agents/maestro/logging"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/store"
)

// Sweep intervals and windows. Reminders are checked every five minutes with
// a matching lookahead so a reminder is dispatched by the last sweep before
// its fire time. Deadline checks run every thirty minutes against two
// notification windows: roughly a day ahead for high-importance events and
// roughly two hours ahead for every event.
const (
	ReminderSweepInterval = 5 * time.Minute
	ReminderLookahead     = 5 * time.Minute
	DeadlineSweepInterval = 30 * time.Minute

	deadlineFarMin  = 23 * time.Hour
	deadlineFarMax  = 25 * time.Hour
	deadlineNearMin = 90 * time.Minute
	deadlineNearMax = 150 * time.Minute
)

// Clock abstracts time.Now for deterministic sweep tests.
type Clock func() time.Time

// ReminderSweep dispatches due reminders exactly once. Each reminder is
// claimed via the store's compare-and-set before the notification goes out,
// so overlapping sweeps (or a sweep racing a manual trigger) cannot
// double-send.
type ReminderSweep struct {
	store    store.Store
	notifier notify.Notifier
	logger   logging.Logger
	now      Clock
}

// NewReminderSweep wires a sweep over the given store and notifier. A nil
// clock defaults to time.Now.
func NewReminderSweep(st store.Store, notifier notify.Notifier, logger logging.Logger, clock Clock) *ReminderSweep {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ReminderSweep{store: st, notifier: notifier, logger: logger, now: clock}
}

// Run performs one sweep. Failures on individual reminders are logged and do
// not stop the rest of the batch; only listing failures abort the sweep.
func (s *ReminderSweep) Run(ctx context.Context) error {
	now := s.now().UTC()
	due, err := s.store.DueReminders(ctx, now, ReminderLookahead)
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}

	for _, r := range due {
		claimed, err := s.store.MarkReminderSent(ctx, r.ID)
		if err != nil {
			s.logger.Error("sweep.reminder.claim_error", "reminder", r.ID, "error", err.Error())
			continue
		}
		if !claimed {
			continue
		}

		title := "Reminder"
		if r.Title != "" {
			title = "Reminder: " + r.Title
		}
		n := notify.Notification{Title: title, Message: r.Message}
		if err := s.notifier.Send(ctx, n); err != nil {
			s.logger.Error("sweep.reminder.send_error", "reminder", r.ID, "error", err.Error())
			continue
		}
		s.logger.Info("sweep.reminder.sent", "reminder", r.ID, "fire_time", r.FireTime.Format(time.RFC3339))
	}
	return nil
}

// deadlineWindow is one notification policy: events whose start lies between
// min and max from now, optionally restricted to high importance.
type deadlineWindow struct {
	min      time.Duration
	max      time.Duration
	highOnly bool
}

// DeadlineSweep notifies about approaching event deadlines. Two windows are
// evaluated independently per event: the far window fires only for
// high-importance events, the near window for every event. An event's
// reminder interval acts as a cooldown between notifications, advanced via
// compare-and-set so concurrent sweeps cannot double-notify.
type DeadlineSweep struct {
	store    store.Store
	notifier notify.Notifier
	logger   logging.Logger
	now      Clock
	windows  []deadlineWindow
}

// NewDeadlineSweep wires a sweep over the given store and notifier. A nil
// clock defaults to time.Now.
func NewDeadlineSweep(st store.Store, notifier notify.Notifier, logger logging.Logger, clock Clock) *DeadlineSweep {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &DeadlineSweep{
		store:    st,
		notifier: notifier,
		logger:   logger,
		now:      clock,
		windows: []deadlineWindow{
			{min: deadlineFarMin, max: deadlineFarMax, highOnly: true},
			{min: deadlineNearMin, max: deadlineNearMax},
		},
	}
}

// Run performs one sweep over all events starting within the widest window.
func (s *DeadlineSweep) Run(ctx context.Context) error {
	now := s.now().UTC()
	events, err := s.store.UpcomingEvents(ctx, now, deadlineFarMax)
	if err != nil {
		return fmt.Errorf("list upcoming events: %w", err)
	}

	for _, ev := range events {
		s.checkEvent(ctx, ev, now)
	}
	return nil
}

// checkEvent evaluates both windows against a local copy of the event. After
// a successful claim the local LastNotifiedOn advances so the second window's
// cooldown sees the first window's notification within the same sweep.
func (s *DeadlineSweep) checkEvent(ctx context.Context, ev store.Event, now time.Time) {
	for _, w := range s.windows {
		if w.highOnly && ev.Importance != store.ImportanceHigh {
			continue
		}
		until := ev.Start.Sub(now)
		if until < w.min || until > w.max {
			continue
		}
		if !ev.LastNotifiedOn.IsZero() && now.Sub(ev.LastNotifiedOn) < ev.Cooldown() {
			continue
		}

		claimed, err := s.store.AdvanceEventNotified(ctx, ev.ID, ev.LastNotifiedOn, now)
		if err != nil {
			s.logger.Error("sweep.deadline.claim_error", "event", ev.ID, "error", err.Error())
			return
		}
		if !claimed {
			// Another sweep got here first; its notification covers us.
			return
		}
		ev.LastNotifiedOn = now

		n := notify.Notification{
			Title:   "Upcoming deadline",
			Message: fmt.Sprintf("%s starts at %s", ev.Title, ev.Start.Format("Mon Jan 2 15:04 MST")),
		}
		if err := s.notifier.Send(ctx, n); err != nil {
			s.logger.Error("sweep.deadline.send_error", "event", ev.ID, "error", err.Error())
			return
		}
		s.logger.Info("sweep.deadline.sent", "event", ev.ID, "title", ev.Title, "lead", until.String())
	}
}
