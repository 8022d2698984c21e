package core

import (
	"context"

	"github.com/maestro-agents/maestro/logging"
)

// RunContext is the mutable, per-run execution scope handed to each agent
// invocation. It aggregates:
//   - The ambient cancellation Context
//   - Identifiers (RunID, ThreadID)
//   - The shared append-only Conversation owned by the run
//   - The currently active graph node
//   - An optional task annotation carried by the most recent handoff
//
// One RunContext exists per run. The interactive path and each scheduler
// firing create their own; no run ever mutates another run's context.
type RunContext struct {
	Context  context.Context
	RunID    string
	ThreadID string

	Conversation *Conversation

	// ActiveNode names the agent currently holding control. Maintained by
	// the graph stepping loop.
	ActiveNode string

	// PendingTask is free text threaded from a Handoff so the receiving
	// agent can disambiguate why it was invoked. Cleared on terminal turns.
	PendingTask string

	// Limiter, when non-nil, caps the total number of model calls the run
	// may make across all agents.
	Limiter *ModelLimiter

	*loggerAdapter
}

// NewRunContext constructs a RunContext for a fresh run over the given
// conversation. A nil conversation is replaced with an empty one.
func NewRunContext(ctx context.Context, threadID string, conv *Conversation, logger logging.Logger) *RunContext {
	if conv == nil {
		conv = NewConversation()
	}
	return &RunContext{
		Context:       ctx,
		RunID:         NewID(),
		ThreadID:      threadID,
		Conversation:  conv,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }
