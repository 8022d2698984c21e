package maestro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-agents/maestro/agent"
	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/graph"
	"github.com/maestro-agents/maestro/model"
)

func singleAgentGraph(t *testing.T, llm model.Model) *graph.Graph {
	t.Helper()
	a := agent.New("assistant", llm)
	g := graph.New(a.Name())
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.Validate())
	return g
}

func TestMaestro_ChatSync(t *testing.T) {
	llm := model.NewScriptedModel(core.Message{Content: "hi there"})
	m := New(singleAgentGraph(t, llm))

	msg, err := m.ChatSync(context.Background(), "t1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Content)
	assert.Equal(t, "assistant", msg.Author)
}

func TestMaestro_ThreadHistoryPersistsAcrossTurns(t *testing.T) {
	llm := model.NewScriptedModel(
		core.Message{Content: "first"},
		core.Message{Content: "second"},
	)
	m := New(singleAgentGraph(t, llm))

	_, err := m.ChatSync(context.Background(), "t1", "one")
	require.NoError(t, err)
	_, err = m.ChatSync(context.Background(), "t1", "two")
	require.NoError(t, err)

	// The second model call sees the full history of the thread.
	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	assert.Len(t, reqs[1].Messages, 3)
}

func TestMaestro_ChatStreamsSteps(t *testing.T) {
	llm := model.NewScriptedModel(core.Message{Content: "streamed answer"})
	m := New(singleAgentGraph(t, llm))

	steps, errCh, err := m.Chat(context.Background(), "t1", "hello")
	require.NoError(t, err)

	var got []graph.Step
	for step := range steps {
		got = append(got, step)
	}
	require.NoError(t, <-errCh)

	require.Len(t, got, 1)
	assert.Equal(t, "assistant", got[0].Node)
	assert.Equal(t, "streamed answer", got[0].Message.Content)
}
