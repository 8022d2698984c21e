package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-agents/maestro/assistant"
	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/model"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/scheduler"
	"github.com/maestro-agents/maestro/store"
	"github.com/maestro-agents/maestro/thread"
)

func testServer(t *testing.T, llm model.Model) (*Server, *notify.RecordingNotifier, store.Store) {
	t.Helper()

	st := store.NewInMemoryStore()
	rec := notify.NewRecordingNotifier()

	g, err := assistant.BuildGraph(assistant.Deps{
		Model:    llm,
		Store:    st,
		Notifier: rec,
	})
	require.NoError(t, err)

	sched := scheduler.New()
	require.NoError(t, sched.Register(scheduler.Job{
		Name:     "reminder-check",
		Interval: time.Hour,
		Run:      func(ctx context.Context) error { return nil },
	}))

	return New(g, thread.NewInMemoryStore(), st, rec, sched), rec, st
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestServer_Health(t *testing.T) {
	s, _, _ := testServer(t, model.NewScriptedModel())

	resp, err := s.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["active_jobs"])
}

func TestServer_Status(t *testing.T) {
	s, _, _ := testServer(t, model.NewScriptedModel())

	resp, err := s.App().Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	jobs, ok := body["jobs"].([]any)
	require.True(t, ok)
	require.Len(t, jobs, 1)
	job := jobs[0].(map[string]any)
	assert.Equal(t, "reminder-check", job["name"])
	assert.Equal(t, "1h0m0s", job["interval"])
}

func TestServer_StatusWithoutScheduler(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestServer_TriggerKnownJob(t *testing.T) {
	s, _, _ := testServer(t, model.NewScriptedModel())

	resp, err := s.App().Test(httptest.NewRequest("POST", "/trigger/reminder-check", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestServer_TriggerUnknownJob(t *testing.T) {
	s, _, _ := testServer(t, model.NewScriptedModel())

	resp, err := s.App().Test(httptest.NewRequest("POST", "/trigger/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestServer_RemindersAndEvents(t *testing.T) {
	s, _, st := testServer(t, model.NewScriptedModel())

	now := time.Now().UTC()
	_, err := st.CreateReminder(context.Background(), store.Reminder{
		Message:  "Submit the form",
		FireTime: now.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = st.CreateEvent(context.Background(), store.Event{
		Title: "Career fair",
		Start: now.Add(24 * time.Hour),
		End:   now.Add(26 * time.Hour),
	})
	require.NoError(t, err)
	_, err = st.CreateEvent(context.Background(), store.Event{
		Title: "Lecture",
		Start: now.Add(-time.Hour),
		End:   now.Add(time.Hour),
	})
	require.NoError(t, err)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/reminders", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(1), decodeBody(t, resp.Body)["count"])

	resp, err = s.App().Test(httptest.NewRequest("GET", "/events/upcoming", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(1), decodeBody(t, resp.Body)["count"])

	resp, err = s.App().Test(httptest.NewRequest("GET", "/events/ongoing", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(1), decodeBody(t, resp.Body)["count"])
}

func TestServer_SendNotification(t *testing.T) {
	s, rec, _ := testServer(t, model.NewScriptedModel())

	req := httptest.NewRequest("POST", "/notification/send",
		strings.NewReader(`{"message": "Deadline coming up!"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.Len(t, rec.Sent(), 1)
	assert.Equal(t, "Deadline coming up!", rec.Sent()[0].Message)
}

func TestServer_SendNotificationRequiresMessage(t *testing.T) {
	s, _, _ := testServer(t, model.NewScriptedModel())

	req := httptest.NewRequest("POST", "/notification/send", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestServer_ChatWithoutGraph(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message": "hi"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestServer_ChatStreamsSteps(t *testing.T) {
	llm := model.NewScriptedModel(
		core.NewAssistantMessage(assistant.SupervisorName, "Hello! How can I help?"),
	)
	s, _, _ := testServer(t, llm)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message": "hi", "thread_id": "t1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	chunks := parseSSE(t, string(raw))
	require.Len(t, chunks, 1)
	assert.Equal(t, assistant.SupervisorName, chunks[0].Node)
	assert.Equal(t, "Hello! How can I help?", chunks[0].Content)
}

func TestServer_ChatFailureSendsApology(t *testing.T) {
	// The script runs dry after the supervisor's handoff, so the next agent
	// invocation fails and the run errors out mid-stream.
	llm := model.NewScriptedModel(
		core.Message{
			Role: core.RoleAssistant,
			ToolCalls: []core.ToolCall{{
				ID:        "call-1",
				Name:      "transfer_to_email_fetch_agent",
				Arguments: `{}`,
			}},
		},
	)
	s, _, _ := testServer(t, llm)

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message": "check my email"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	chunks := parseSSE(t, string(raw))
	require.NotEmpty(t, chunks)
	last := chunks[len(chunks)-1]
	assert.Equal(t, chatApology, last.Content)
}

func parseSSE(t *testing.T, raw string) []chatChunk {
	t.Helper()
	var chunks []chatChunk
	for _, line := range strings.Split(raw, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var chunk chatChunk
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &chunk))
		chunks = append(chunks, chunk)
	}
	return chunks
}
