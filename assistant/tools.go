package assistant

import (
	"fmt"
	"time"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/store"
	"github.com/maestro-agents/maestro/tool"
)

// upcomingWindow bounds the list_upcoming_* tools so agents see the near
// future instead of the whole store.
const upcomingWindow = 7 * 24 * time.Hour

type fetchEmailsArgs struct {
	NumberOfEmails int `json:"number_of_emails,omitempty" description:"Maximum number of unread emails to fetch (default 10)"`
}

type emailIDArgs struct {
	EmailID string `json:"email_id" description:"The id of the email"`
}

type searchEmailsArgs struct {
	Query string `json:"query" description:"Free-text search query"`
}

type createDraftArgs struct {
	To      string `json:"to" description:"Recipient email address"`
	Subject string `json:"subject" description:"Draft subject line"`
	Body    string `json:"body" description:"Draft body text"`
}

// MailboxTools builds the email tool set over the given mailbox.
func MailboxTools(m Mailbox) []tool.Tool {
	fetch := tool.NewFunctionToolFromStruct(
		"fetch_emails_in_inbox",
		"Fetch unread emails from the user's inbox, newest first.",
		fetchEmailsArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			limit := intArg(args, "number_of_emails", 10)
			emails, err := m.Unread(toolCtx.Context())
			if err != nil {
				return nil, err
			}
			if len(emails) > limit {
				emails = emails[:limit]
			}
			return emails, nil
		},
	)

	get := tool.NewFunctionToolFromStruct(
		"fetch_email",
		"Fetch the full content of one email by id.",
		emailIDArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return m.Get(toolCtx.Context(), stringArg(args, "email_id"))
		},
	)

	markRead := tool.NewFunctionToolFromStruct(
		"mark_email_as_read",
		"Mark an email as read.",
		emailIDArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			id := stringArg(args, "email_id")
			if err := m.MarkRead(toolCtx.Context(), id); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Email %s marked as read.", id), nil
		},
	)

	search := tool.NewFunctionToolFromStruct(
		"search_emails",
		"Search the mailbox with a free-text query.",
		searchEmailsArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return m.Search(toolCtx.Context(), stringArg(args, "query"))
		},
	)

	draft := tool.NewFunctionToolFromStruct(
		"create_draft_email",
		"Create a draft email reply for the user to review.",
		createDraftArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			id, err := m.CreateDraft(toolCtx.Context(),
				stringArg(args, "to"), stringArg(args, "subject"), stringArg(args, "body"))
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Draft %s created.", id), nil
		},
	)

	return []tool.Tool{fetch, get, markRead, search, draft}
}

type listCalendarArgs struct {
	MaxResults int `json:"max_results,omitempty" description:"Maximum number of entries to return (default 10)"`
}

type createCalendarArgs struct {
	Title    string `json:"title" description:"Entry title"`
	Start    string `json:"start_time" description:"Start time in RFC 3339 format"`
	End      string `json:"end_time" description:"End time in RFC 3339 format"`
	Location string `json:"location,omitempty" description:"Optional location"`
}

type deleteCalendarArgs struct {
	EntryID string `json:"entry_id" description:"The id of the calendar entry"`
}

// CalendarTools builds the calendar tool set over the given calendar.
func CalendarTools(c Calendar) []tool.Tool {
	list := tool.NewFunctionToolFromStruct(
		"list_upcoming_events_of_calendar",
		"List the next entries of the user's calendar.",
		listCalendarArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return c.Upcoming(toolCtx.Context(), intArg(args, "max_results", 10))
		},
	)

	create := tool.NewFunctionToolFromStruct(
		"create_new_calendar_event",
		"Create a new entry in the user's calendar.",
		createCalendarArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			start, err := parseTimeArg(args, "start_time")
			if err != nil {
				return nil, err
			}
			end, err := parseTimeArg(args, "end_time")
			if err != nil {
				return nil, err
			}
			return c.Create(toolCtx.Context(), CalendarEntry{
				Title:    stringArg(args, "title"),
				Start:    start,
				End:      end,
				Location: stringArg(args, "location"),
			})
		},
	)

	del := tool.NewFunctionToolFromStruct(
		"delete_calendar_event",
		"Delete an entry from the user's calendar.",
		deleteCalendarArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			id := stringArg(args, "entry_id")
			if err := c.Delete(toolCtx.Context(), id); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Calendar entry %s deleted.", id), nil
		},
	)

	return []tool.Tool{list, create, del}
}

type weatherArgs struct {
	Location string `json:"location" description:"City or place to look up"`
}

// NewWeatherTool exposes the weather collaborator as a lookup tool.
func NewWeatherTool(w Weather) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"get_weather_forecast",
		"Get the current weather conditions for a location.",
		weatherArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return w.Current(toolCtx.Context(), stringArg(args, "location"))
		},
	)
}

type createEventArgs struct {
	Title       string `json:"title" description:"Event title"`
	Description string `json:"description,omitempty" description:"Optional longer description"`
	Start       string `json:"start_time" description:"Start time in RFC 3339 format"`
	End         string `json:"end_time" description:"End time in RFC 3339 format"`
	Importance  string `json:"importance,omitempty" description:"low, medium or high (default medium)"`
}

type createReminderArgs struct {
	Title    string `json:"title,omitempty" description:"Short reminder title"`
	Message  string `json:"message" description:"Reminder message shown to the user"`
	FireTime string `json:"fire_time" description:"When to fire, RFC 3339 format"`
}

// StoreTools builds the event and reminder tool set over the given store.
func StoreTools(s store.Store) []tool.Tool {
	createEvent := tool.NewFunctionToolFromStruct(
		"create_event",
		"Record an event or deadline to track. Deadline notifications are sent automatically based on importance.",
		createEventArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			start, err := parseTimeArg(args, "start_time")
			if err != nil {
				return nil, err
			}
			end, err := parseTimeArg(args, "end_time")
			if err != nil {
				return nil, err
			}
			importance, err := parseImportance(stringArg(args, "importance"))
			if err != nil {
				return nil, err
			}
			return s.CreateEvent(toolCtx.Context(), store.Event{
				Title:       stringArg(args, "title"),
				Description: stringArg(args, "description"),
				Start:       start,
				End:         end,
				Importance:  importance,
			})
		},
	)

	createReminder := tool.NewFunctionToolFromStruct(
		"create_reminder",
		"Schedule a one-shot reminder notification at a fixed time.",
		createReminderArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			fireTime, err := parseTimeArg(args, "fire_time")
			if err != nil {
				return nil, err
			}
			return s.CreateReminder(toolCtx.Context(), store.Reminder{
				Title:    stringArg(args, "title"),
				Message:  stringArg(args, "message"),
				FireTime: fireTime,
			})
		},
	)

	listEvents := tool.NewFunctionTool(
		"list_upcoming_events",
		"List tracked events starting within the next week.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return s.UpcomingEvents(toolCtx.Context(), time.Now().UTC(), upcomingWindow)
		},
	)

	listReminders := tool.NewFunctionTool(
		"list_upcoming_reminders",
		"List pending reminders firing within the next week.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return s.UpcomingReminders(toolCtx.Context(), time.Now().UTC(), upcomingWindow)
		},
	)

	return []tool.Tool{createEvent, createReminder, listEvents, listReminders}
}

type sendNotificationArgs struct {
	NotificationMessage string `json:"notification_message" description:"The notification message"`
}

// NewSendNotificationTool exposes the notifier as a tool. Matches the phone
// notification behavior of the original ntfy integration.
func NewSendNotificationTool(n notify.Notifier) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		"send_notification",
		"Send a notification to the user's phone.",
		sendNotificationArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			err := n.Send(toolCtx.Context(), notify.Notification{
				Message: stringArg(args, "notification_message"),
			})
			if err != nil {
				return nil, err
			}
			return "Notification sent successfully", nil
		},
	)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads an integer argument, accepting the float64 values JSON
// decoding produces.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func parseTimeArg(args map[string]any, key string) (time.Time, error) {
	raw := stringArg(args, key)
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &tool.ToolError{
			Message: fmt.Sprintf("invalid %s: %q is not RFC 3339", key, raw),
			Code:    "VALIDATION_ERROR",
		}
	}
	return t.UTC(), nil
}

func parseImportance(raw string) (store.Importance, error) {
	switch raw {
	case "":
		return store.ImportanceMedium, nil
	case string(store.ImportanceLow):
		return store.ImportanceLow, nil
	case string(store.ImportanceMedium):
		return store.ImportanceMedium, nil
	case string(store.ImportanceHigh):
		return store.ImportanceHigh, nil
	default:
		return "", &tool.ToolError{
			Message: fmt.Sprintf("invalid importance: %q", raw),
			Code:    "VALIDATION_ERROR",
		}
	}
}
