package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-agents/maestro/logging"
)

func TestMessage_IsFinal(t *testing.T) {
	assert.True(t, NewAssistantMessage("supervisor", "done").IsFinal())
	assert.False(t, NewUserMessage("hi").IsFinal())
	assert.False(t, NewToolMessage("c1", "echo", "out").IsFinal())
	assert.False(t, Message{Role: RoleAssistant}.IsFinal())
	assert.False(t, Message{
		Role:      RoleAssistant,
		Content:   "thinking",
		ToolCalls: []ToolCall{{ID: "c1", Name: "echo"}},
	}.IsFinal())
}

func TestConversation_MessagesReturnsCopy(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserMessage("one"))

	snapshot := conv.Messages()
	snapshot[0].Content = "mutated"

	got, ok := conv.Last()
	require.True(t, ok)
	assert.Equal(t, "one", got.Content)
}

func TestConversation_ConcurrentAppend(t *testing.T) {
	conv := NewConversation()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv.Append(NewUserMessage("msg"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, conv.Len())
}

func TestRunContext_NilConversationReplaced(t *testing.T) {
	rc := NewRunContext(context.Background(), "t1", nil, logging.NoOpLogger{})

	require.NotNil(t, rc.Conversation)
	assert.Zero(t, rc.Conversation.Len())
	assert.NotEmpty(t, rc.RunID)
	assert.Equal(t, "t1", rc.ThreadID)
}

func TestToolContext_FirstHandoffWins(t *testing.T) {
	rc := NewRunContext(context.Background(), "t1", nil, logging.NoOpLogger{})
	rc.ActiveNode = "supervisor"

	tc := NewToolContext(rc, "call-1")
	tc.RequestHandoff("email_fetch_agent", "check the inbox")
	tc.RequestHandoff("notification_agent", "ignored")

	h := tc.Handoff()
	require.NotNil(t, h)
	assert.Equal(t, "email_fetch_agent", h.Target)
	assert.Equal(t, "check the inbox", h.Task)
}

func TestModelLimiter_Exceeded(t *testing.T) {
	ml := NewModelLimiter(2)
	require.NoError(t, ml.Increment())
	require.NoError(t, ml.Increment())
	assert.Error(t, ml.Increment())
	assert.Equal(t, 3, ml.Count())
}

func TestModelLimiter_Unlimited(t *testing.T) {
	ml := NewModelLimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, ml.Increment())
	}
	assert.Equal(t, -1, ml.Remaining())
}

func TestRoutingError_Message(t *testing.T) {
	withTarget := &RoutingError{Node: "supervisor", Target: "ghost", Reason: "handoff target not allowed"}
	assert.Contains(t, withTarget.Error(), `illegal handoff to "ghost"`)

	ceiling := &RoutingError{Node: "supervisor", Reason: "step ceiling of 24 reached"}
	assert.NotContains(t, ceiling.Error(), "illegal handoff")
}
