package core

import (
	"context"

	"github.com/maestro-agents/maestro/logging"
)

// ToolContext provides a constrained, auditable surface for tool / function
// implementations invoked by an agent. A tool may request a handoff through
// it; the requested Handoff is collected by the agent after the call and
// interpreted by the graph, never executed by the tool itself.
type ToolContext struct {
	runCtx  *RunContext
	callID  string
	handoff *Handoff

	*loggerAdapter
}

// NewToolContext constructs a tool context bound to a parent RunContext and
// the unique id of the tool call being resolved.
func NewToolContext(runCtx *RunContext, callID string) *ToolContext {
	return &ToolContext{
		runCtx:        runCtx,
		callID:        callID,
		loggerAdapter: newLoggerAdapter(runCtx.Logger()),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.runCtx.Context }

// ThreadID returns the thread id associated with the tool invocation.
func (tc *ToolContext) ThreadID() string { return tc.runCtx.ThreadID }

// RunID returns the run id associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runCtx.RunID }

// CallID returns the id of the tool call being resolved.
func (tc *ToolContext) CallID() string { return tc.callID }

// AgentName returns the name of the agent that issued the tool call.
func (tc *ToolContext) AgentName() string { return tc.runCtx.ActiveNode }

// PendingTask returns the task annotation carried by the handoff that
// activated the current agent, if any.
func (tc *ToolContext) PendingTask() string { return tc.runCtx.PendingTask }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// RequestHandoff signals orchestration to transfer control to the named
// agent, optionally carrying a task annotation. Only the first request per
// invocation is honored.
func (tc *ToolContext) RequestHandoff(target, task string) {
	if tc.handoff != nil {
		tc.LogWarn("tool.handoff.duplicate", "agent", tc.AgentName(), "target", target, "call_id", tc.callID)
		return
	}
	tc.handoff = &Handoff{Target: target, Task: task}
	tc.LogInfo("tool.handoff.request", "from", tc.AgentName(), "to", target, "call_id", tc.callID)
}

// Handoff returns the handoff requested during this invocation, or nil.
func (tc *ToolContext) Handoff() *Handoff { return tc.handoff }
