package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/graph"
	"github.com/maestro-agents/maestro/logging"
)

// GraphRunJob periodically drives the orchestration graph with a fixed
// prompt, as if a user had asked. Each firing runs on a fresh conversation
// under a dedicated background thread id, so scheduled runs never mix state
// with interactive chats or with each other. A mutex serializes firings: if
// a run outlasts the interval the next firing waits instead of overlapping.
type GraphRunJob struct {
	graph    *graph.Graph
	threadID string
	prompt   string
	logger   logging.Logger

	mu sync.Mutex
}

// NewGraphRunJob builds a background graph job.
func NewGraphRunJob(g *graph.Graph, threadID, prompt string, logger logging.Logger) *GraphRunJob {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &GraphRunJob{graph: g, threadID: threadID, prompt: prompt, logger: logger}
}

// Run executes one full graph run over the prompt.
func (j *GraphRunJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	conv := core.NewConversation()
	conv.Append(core.NewUserMessage(j.prompt))
	runCtx := core.NewRunContext(ctx, j.threadID, conv, j.logger)

	msg, err := j.graph.RunSync(runCtx)
	if err != nil {
		return fmt.Errorf("background graph run: %w", err)
	}
	j.logger.Info("job.graph_run.done", "thread", j.threadID, "answer_len", len(msg.Content))
	return nil
}
