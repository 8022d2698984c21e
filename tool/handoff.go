package tool

import (
	"fmt"

	"github.com/maestro-agents/maestro/core"
)

// handoffTool requests orchestration transfer to a fixed target node. Each
// instance is bound to a single target so the model picks the destination by
// choosing which tool to call, not by passing a free-form agent name.
type handoffTool struct {
	target      string
	description string
}

// NewHandoffTool constructs a transfer tool for the given target node. The
// tool is named "transfer_to_<target>" and accepts an optional task string
// carried to the target as initial context.
func NewHandoffTool(target, description string) Tool {
	if description == "" {
		description = fmt.Sprintf("Transfer control to the %s agent. Use when that agent is better suited.", target)
	}
	return &handoffTool{target: target, description: description}
}

func (t *handoffTool) Name() string { return "transfer_to_" + t.target }

func (t *handoffTool) Description() string { return t.description }

func (t *handoffTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task": map[string]any{
				"type":        "string",
				"description": "Optional task description carried to the target agent",
			},
		},
	}
}

func (t *handoffTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	task := ""
	if raw, ok := args["task"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("field 'task' must be a string")
		}
		task = s
	}
	tc.RequestHandoff(t.target, task)
	return fmt.Sprintf("Successfully transferred to %s", t.target), nil
}
