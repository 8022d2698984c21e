package agent

import (
	"fmt"
	"strings"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/memory"
)

// memoryHeader introduces recalled facts inside the injected system prompt.
const memoryHeader = "Relevant information from previous conversations:"

// MemoryHooks attach a memory gateway to an agent. Before a turn they inject
// recalled facts into the instructions; after a terminal turn they record the
// assistant's answer asynchronously. Both hooks are no-ops when the gateway
// or the user id is unset, so agents without memory configured behave exactly
// as before.
type MemoryHooks struct {
	gateway *memory.Gateway
	userID  string
	agent   string
}

// NewMemoryHooks builds hooks over the given gateway for one user. A nil
// gateway or empty user id disables both hooks.
func NewMemoryHooks(gateway *memory.Gateway, userID string) *MemoryHooks {
	return &MemoryHooks{gateway: gateway, userID: userID}
}

func (h *MemoryHooks) enabled() bool {
	return h != nil && h.gateway != nil && h.userID != ""
}

// Inject returns an instruction block of recalled facts for the current turn,
// or empty when memory is disabled or the turn was not initiated by a user
// message. The block is injected into the model request only and never
// persisted to the conversation.
func (h *MemoryHooks) Inject(runCtx *core.RunContext) string {
	if !h.enabled() {
		return ""
	}
	last, ok := runCtx.Conversation.Last()
	if !ok || last.Role != core.RoleUser || last.Content == "" {
		return ""
	}

	facts := h.gateway.Retrieve(runCtx.Context, h.userID, last.Content)
	if len(facts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(memoryHeader)
	for _, f := range facts {
		fmt.Fprintf(&b, "\n- %s", f.Content)
	}
	runCtx.LogDebug("agent.memory.injected", "user_id", h.userID, "facts", len(facts))
	return b.String()
}

// Commit records the assistant's terminal answer to long-term memory. The
// write is asynchronous and never blocks or fails the turn.
func (h *MemoryHooks) Commit(runCtx *core.RunContext, msg core.Message) {
	if !h.enabled() || msg.Content == "" {
		return
	}
	h.gateway.Record(h.userID, msg.Content, map[string]any{
		"role":      string(core.RoleAssistant),
		"author":    msg.Author,
		"thread_id": runCtx.ThreadID,
	})
}
