// Package maestro provides a high-level façade over the orchestration graph
// and thread storage, enabling quick construction of multi-agent assistants.
// Most applications interact with this package by:
//  1. Building a graph (assistant.BuildGraph or graph.New for custom rosters)
//  2. Creating a Maestro via New() (optionally overriding the thread store
//     or logger)
//  3. Submitting chat turns asynchronously (Chat) or synchronously (ChatSync)
//
// The façade keeps per-thread conversation history across turns and delegates
// routing to graph.Graph. All defaults are safe for local development; the
// scheduler and HTTP server in their own packages build on the same pieces.
package maestro

import (
	"context"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/graph"
	"github.com/maestro-agents/maestro/logging"
	"github.com/maestro-agents/maestro/thread"
)

// Options configures the Maestro instance.
type Options struct {
	// ThreadStore persists conversation history per thread id (defaults to
	// an in-memory implementation).
	ThreadStore core.ThreadStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Maestro is the high-level façade aggregating the orchestration graph and
// thread storage.
type Maestro struct {
	graph   *graph.Graph
	threads core.ThreadStore
	logger  logging.Logger
}

// New creates a Maestro over the given graph with optional overrides.
func New(g *graph.Graph, optFns ...func(o *Options)) *Maestro {
	opts := Options{
		ThreadStore: thread.NewInMemoryStore(),
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Maestro{graph: g, threads: opts.ThreadStore, logger: opts.Logger}
}

// Chat appends the user text to the thread's conversation and starts an
// asynchronous graph run, returning the step and error channels.
func (m *Maestro) Chat(ctx context.Context, threadID, text string) (<-chan graph.Step, <-chan error, error) {
	th, err := m.threads.Get(threadID)
	if err != nil {
		return nil, nil, err
	}
	th.Conversation.Append(core.NewUserMessage(text))
	_ = m.threads.Touch(threadID)

	runCtx := core.NewRunContext(ctx, threadID, th.Conversation, m.logger)
	steps, errCh := m.graph.Run(runCtx)
	return steps, errCh, nil
}

// ChatSync is a synchronous helper that drains the step channel and returns
// the final terminal message of the run.
func (m *Maestro) ChatSync(ctx context.Context, threadID, text string) (core.Message, error) {
	th, err := m.threads.Get(threadID)
	if err != nil {
		return core.Message{}, err
	}
	th.Conversation.Append(core.NewUserMessage(text))
	_ = m.threads.Touch(threadID)

	runCtx := core.NewRunContext(ctx, threadID, th.Conversation, m.logger)
	return m.graph.RunSync(runCtx)
}
