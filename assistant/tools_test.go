package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/logging"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/store"
	"github.com/maestro-agents/maestro/tool"
)

func testToolContext(t *testing.T) *core.ToolContext {
	t.Helper()
	runCtx := core.NewRunContext(context.Background(), "thread-1", core.NewConversation(), logging.NoOpLogger{})
	return core.NewToolContext(runCtx, "call-1")
}

type fakeMailbox struct {
	emails     []Email
	markedRead []string
	drafts     []createDraftArgs
}

func (f *fakeMailbox) Unread(_ context.Context) ([]Email, error) { return f.emails, nil }

func (f *fakeMailbox) Get(_ context.Context, id string) (Email, error) {
	for _, e := range f.emails {
		if e.ID == id {
			return e, nil
		}
	}
	return Email{}, errors.New("no such email")
}

func (f *fakeMailbox) MarkRead(_ context.Context, id string) error {
	f.markedRead = append(f.markedRead, id)
	return nil
}

func (f *fakeMailbox) Search(_ context.Context, _ string) ([]Email, error) {
	return f.emails, nil
}

func (f *fakeMailbox) CreateDraft(_ context.Context, to, subject, body string) (string, error) {
	f.drafts = append(f.drafts, createDraftArgs{To: to, Subject: subject, Body: body})
	return "draft-1", nil
}

type fakeCalendar struct {
	entries []CalendarEntry
	deleted []string
}

func (f *fakeCalendar) Upcoming(_ context.Context, max int) ([]CalendarEntry, error) {
	if len(f.entries) > max {
		return f.entries[:max], nil
	}
	return f.entries, nil
}

func (f *fakeCalendar) Create(_ context.Context, e CalendarEntry) (CalendarEntry, error) {
	e.ID = "cal-1"
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeCalendar) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeWeather struct{}

func (fakeWeather) Current(_ context.Context, location string) (string, error) {
	return "Sunny in " + location, nil
}

func toolByName(t *testing.T, tools []tool.Tool, name string) tool.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func TestMailboxTools_FetchLimitsResults(t *testing.T) {
	mb := &fakeMailbox{}
	for i := 0; i < 5; i++ {
		mb.emails = append(mb.emails, Email{ID: string(rune('a' + i)), Subject: "s"})
	}

	fetch := toolByName(t, MailboxTools(mb), "fetch_emails_in_inbox")
	result, err := fetch.Call(testToolContext(t), map[string]any{"number_of_emails": float64(2)})
	require.NoError(t, err)

	emails, ok := result.([]Email)
	require.True(t, ok)
	assert.Len(t, emails, 2)
}

func TestMailboxTools_MarkRead(t *testing.T) {
	mb := &fakeMailbox{emails: []Email{{ID: "e1"}}}

	markRead := toolByName(t, MailboxTools(mb), "mark_email_as_read")
	result, err := markRead.Call(testToolContext(t), map[string]any{"email_id": "e1"})
	require.NoError(t, err)

	assert.Equal(t, "Email e1 marked as read.", result)
	assert.Equal(t, []string{"e1"}, mb.markedRead)
}

func TestCalendarTools_CreateParsesTimes(t *testing.T) {
	cal := &fakeCalendar{}
	create := toolByName(t, CalendarTools(cal), "create_new_calendar_event")

	result, err := create.Call(testToolContext(t), map[string]any{
		"title":      "Standup",
		"start_time": "2026-09-01T09:00:00Z",
		"end_time":   "2026-09-01T09:15:00Z",
	})
	require.NoError(t, err)

	entry, ok := result.(CalendarEntry)
	require.True(t, ok)
	assert.Equal(t, "cal-1", entry.ID)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), entry.Start)
}

func TestCalendarTools_CreateRejectsBadTime(t *testing.T) {
	create := toolByName(t, CalendarTools(&fakeCalendar{}), "create_new_calendar_event")

	_, err := create.Call(testToolContext(t), map[string]any{
		"title":      "Standup",
		"start_time": "tomorrow",
		"end_time":   "2026-09-01T09:15:00Z",
	})
	require.Error(t, err)

	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestWeatherTool(t *testing.T) {
	w := NewWeatherTool(fakeWeather{})
	result, err := w.Call(testToolContext(t), map[string]any{"location": "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, "Sunny in Berlin", result)
}

func TestStoreTools_CreateEventDefaultsImportance(t *testing.T) {
	s := store.NewInMemoryStore()
	create := toolByName(t, StoreTools(s), "create_event")

	result, err := create.Call(testToolContext(t), map[string]any{
		"title":      "Thesis deadline",
		"start_time": "2026-09-10T12:00:00Z",
		"end_time":   "2026-09-10T13:00:00Z",
	})
	require.NoError(t, err)

	ev, ok := result.(store.Event)
	require.True(t, ok)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, store.ImportanceMedium, ev.Importance)
}

func TestStoreTools_CreateEventRejectsBadImportance(t *testing.T) {
	create := toolByName(t, StoreTools(store.NewInMemoryStore()), "create_event")

	_, err := create.Call(testToolContext(t), map[string]any{
		"title":      "x",
		"start_time": "2026-09-10T12:00:00Z",
		"end_time":   "2026-09-10T13:00:00Z",
		"importance": "urgent",
	})
	require.Error(t, err)

	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestStoreTools_CreateReminder(t *testing.T) {
	s := store.NewInMemoryStore()
	create := toolByName(t, StoreTools(s), "create_reminder")

	result, err := create.Call(testToolContext(t), map[string]any{
		"message":   "Submit the form",
		"fire_time": "2026-09-02T08:00:00Z",
	})
	require.NoError(t, err)

	r, ok := result.(store.Reminder)
	require.True(t, ok)
	assert.False(t, r.Sent)

	pending, err := s.UpcomingReminders(context.Background(),
		time.Date(2026, 9, 2, 7, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSendNotificationTool(t *testing.T) {
	rec := notify.NewRecordingNotifier()
	send := NewSendNotificationTool(rec)

	result, err := send.Call(testToolContext(t), map[string]any{
		"notification_message": "Deadline coming up!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Notification sent successfully", result)

	require.Len(t, rec.Sent(), 1)
	assert.Equal(t, "Deadline coming up!", rec.Sent()[0].Message)
}

func TestSendNotificationTool_Failure(t *testing.T) {
	rec := notify.NewRecordingNotifier()
	rec.Fail(errors.New("ntfy unreachable"))

	send := NewSendNotificationTool(rec)
	_, err := send.Call(testToolContext(t), map[string]any{
		"notification_message": "hello",
	})
	require.Error(t, err)

	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}
