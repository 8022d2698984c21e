package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/logging"
	"github.com/maestro-agents/maestro/model"
	"github.com/maestro-agents/maestro/notify"
	"github.com/maestro-agents/maestro/store"
)

func validDeps() Deps {
	return Deps{
		Model:    model.NewScriptedModel(),
		Store:    store.NewInMemoryStore(),
		Notifier: notify.NewRecordingNotifier(),
	}
}

func TestBuildGraph_RequiresModelStoreNotifier(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(d *Deps)
	}{
		{"model", func(d *Deps) { d.Model = nil }},
		{"store", func(d *Deps) { d.Store = nil }},
		{"notifier", func(d *Deps) { d.Notifier = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := validDeps()
			tc.mutate(&deps)

			_, err := BuildGraph(deps)
			require.Error(t, err)

			var cfgErr *core.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "assistant", cfgErr.Component)
		})
	}
}

func TestBuildGraph_WiresAllAgents(t *testing.T) {
	g, err := BuildGraph(validDeps())
	require.NoError(t, err)

	assert.Equal(t, SupervisorName, g.Entry())
	assert.ElementsMatch(t, []string{
		SupervisorName,
		EmailFetchName,
		EmailCategorizerName,
		EmailSummarizerName,
		NotificationName,
		EventSchedulerName,
	}, g.Nodes())
}

func TestBuildGraph_OptionalCollaboratorsMayBeNil(t *testing.T) {
	deps := validDeps() // no mailbox, calendar or weather
	_, err := BuildGraph(deps)
	require.NoError(t, err)
}

// Drives a full run through the built graph: the supervisor hands off to the
// notification agent, which sends a notification and yields, and control
// returns to the supervisor for the terminal answer.
func TestBuildGraph_NotificationRoundTrip(t *testing.T) {
	llm := model.NewScriptedModel(
		core.Message{
			Role: core.RoleAssistant,
			ToolCalls: []core.ToolCall{{
				ID:        "call-1",
				Name:      "transfer_to_notification_agent",
				Arguments: `{"task": "notify the user about the deadline"}`,
			}},
		},
		core.Message{
			Role: core.RoleAssistant,
			ToolCalls: []core.ToolCall{{
				ID:        "call-2",
				Name:      "send_notification",
				Arguments: `{"notification_message": "Deadline coming up!"}`,
			}},
		},
		core.NewAssistantMessage(NotificationName, "Notified the user."),
		core.NewAssistantMessage(SupervisorName, "All done."),
	)

	rec := notify.NewRecordingNotifier()
	deps := validDeps()
	deps.Model = llm
	deps.Notifier = rec

	g, err := BuildGraph(deps)
	require.NoError(t, err)

	conv := core.NewConversation()
	conv.Append(core.NewUserMessage("Keep me posted on my deadlines."))
	runCtx := core.NewRunContext(context.Background(), "thread-1", conv, logging.NoOpLogger{})

	final, err := g.RunSync(runCtx)
	require.NoError(t, err)
	assert.Equal(t, "All done.", final.Content)
	assert.Equal(t, SupervisorName, final.Author)

	require.Len(t, rec.Sent(), 1)
	assert.Equal(t, "Deadline coming up!", rec.Sent()[0].Message)

	// The handoff task reaches the notification agent's instructions.
	require.Equal(t, 4, llm.Calls())
	assert.Contains(t, llm.Requests()[1].Instructions, "notify the user about the deadline")
}
