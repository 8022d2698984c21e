package agent

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/model"
	"github.com/maestro-agents/maestro/tool"
)

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	Instruction   Instruction
	Tools         []tool.Tool
	Memory        *MemoryHooks
	MaxToolRounds int
}

// Result is the outcome of one agent invocation: the last assistant message
// produced plus an optional handoff requested by one of its tools. A non-nil
// Handoff means the invocation ended by transferring control; the graph
// decides what runs next.
type Result struct {
	Message core.Message
	Handoff *core.Handoff
}

// Agent integrates a language model with tools to act as one node of an
// orchestration graph.
//
// Each Invoke runs the model over the shared conversation, resolving tool
// calls until the model produces a terminal text answer, a tool requests a
// handoff, or the round ceiling is hit. Tool calls are resolved exactly once:
// every call in an assistant message gets exactly one role=tool message with
// the same call id, including when the tool is unknown, its arguments are
// malformed, or it fails. Failures become structured error payloads the model
// can react to instead of aborting the run.
type Agent struct {
	name          string
	llm           model.Model
	instruction   Instruction
	tools         map[string]tool.Tool
	memory        *MemoryHooks
	maxToolRounds int
}

// New creates an agent with sensible defaults: a generic assistant
// instruction, no tools, no memory and an eight round tool ceiling.
//
// Parameters:
//   - name: node name used as message author and in routing
//   - llm: language model implementation for text generation
func New(name string, llm model.Model, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Instruction:   NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		MaxToolRounds: 8,
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = 8
	}

	a := &Agent{
		name:          name,
		llm:           llm,
		instruction:   opts.Instruction,
		tools:         make(map[string]tool.Tool),
		memory:        opts.Memory,
		maxToolRounds: opts.MaxToolRounds,
	}
	a.RegisterTools(opts.Tools...)
	return a
}

// Name returns the agent's node name.
func (a *Agent) Name() string { return a.name }

// RegisterTool adds a tool to the agent's capability set.
func (a *Agent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the agent's capability set.
func (a *Agent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// HasTool checks if a tool is registered with the agent.
func (a *Agent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the names of all registered tools in lexical order.
func (a *Agent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the agent over the run's conversation until it yields a
// terminal assistant message or a handoff.
func (a *Agent) Invoke(runCtx *core.RunContext) (Result, error) {
	runCtx.LogDebug("agent.invoke.start", "agent", a.name, "run", runCtx.RunID)

	instructions, err := a.buildInstructions(runCtx)
	if err != nil {
		return Result{}, fmt.Errorf("agent %s: resolve instructions: %w", a.name, err)
	}

	for round := 0; round < a.maxToolRounds; round++ {
		if runCtx.Limiter != nil {
			if err := runCtx.Limiter.Increment(); err != nil {
				runCtx.LogError("agent.model.limit", "agent", a.name, "error", err.Error())
				return Result{}, fmt.Errorf("agent %s: %w", a.name, err)
			}
		}

		req := model.Request{
			Instructions: instructions,
			Messages:     runCtx.Conversation.Messages(),
			Tools:        a.toolDefinitions(),
		}

		msg, err := a.llm.Complete(runCtx.Context, req)
		if err != nil {
			runCtx.LogError("agent.model.error", "agent", a.name, "error", err.Error())
			return Result{}, fmt.Errorf("agent %s: model completion: %w", a.name, err)
		}
		msg.Role = core.RoleAssistant
		msg.Author = a.name
		runCtx.Conversation.Append(msg)

		if len(msg.ToolCalls) == 0 {
			runCtx.LogInfo("agent.invoke.final", "agent", a.name, "run", runCtx.RunID, "rounds", round+1)
			a.memory.Commit(runCtx, msg)
			return Result{Message: msg}, nil
		}

		handoff := a.resolveToolCalls(runCtx, msg.ToolCalls)
		if handoff != nil {
			runCtx.LogInfo("agent.invoke.handoff", "agent", a.name, "target", handoff.Target)
			return Result{Message: msg, Handoff: handoff}, nil
		}
	}

	runCtx.LogError("agent.invoke.rounds_exceeded", "agent", a.name, "max_rounds", a.maxToolRounds)
	return Result{}, fmt.Errorf("agent %s: exceeded %d tool rounds without terminal answer", a.name, a.maxToolRounds)
}

// buildInstructions resolves the configured instruction and appends the
// memory injection block when the hooks produce one. The combined text goes
// into the model request only; it is never written to the conversation.
func (a *Agent) buildInstructions(runCtx *core.RunContext) (string, error) {
	instructions, err := a.instruction.Resolve(runCtx)
	if err != nil {
		return "", err
	}
	if runCtx.PendingTask != "" {
		instructions += "\n\nCurrent task: " + runCtx.PendingTask
	}
	if block := a.memory.Inject(runCtx); block != "" {
		instructions += "\n\n" + block
	}
	return instructions, nil
}

// resolveToolCalls executes every call of an assistant turn exactly once and
// appends one role=tool message per call. It returns the first handoff
// requested by any tool, or nil.
func (a *Agent) resolveToolCalls(runCtx *core.RunContext, calls []core.ToolCall) *core.Handoff {
	var handoff *core.Handoff
	for _, call := range calls {
		toolCtx := core.NewToolContext(runCtx, call.ID)
		content := a.executeCall(toolCtx, call)
		runCtx.Conversation.Append(core.NewToolMessage(call.ID, call.Name, content))

		if handoff == nil {
			handoff = toolCtx.Handoff()
		}
	}
	return handoff
}

// executeCall runs a single tool call and renders its outcome as the tool
// message content. Failures are rendered as structured JSON payloads so the
// model sees what went wrong.
func (a *Agent) executeCall(toolCtx *core.ToolContext, call core.ToolCall) string {
	t, exists := a.tools[call.Name]
	if !exists {
		toolCtx.LogWarn("agent.tool.unknown", "agent", a.name, "tool", call.Name)
		return errorPayload(&tool.ToolError{Tool: call.Name, Message: "tool not found", Code: "UNKNOWN_TOOL"})
	}

	args := make(map[string]any)
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			toolCtx.LogWarn("agent.tool.bad_arguments", "agent", a.name, "tool", call.Name, "error", err.Error())
			return errorPayload(&tool.ToolError{
				Tool:    call.Name,
				Message: fmt.Sprintf("invalid arguments: %v", err),
				Code:    "INVALID_ARGUMENTS",
			})
		}
	}

	result, err := t.Call(toolCtx, args)
	if err != nil {
		if toolErr, ok := err.(*tool.ToolError); ok {
			return errorPayload(toolErr)
		}
		return errorPayload(&tool.ToolError{Tool: call.Name, Message: err.Error(), Code: "EXECUTION_ERROR"})
	}

	switch v := result.(type) {
	case string:
		return v
	case nil:
		return "null"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return errorPayload(&tool.ToolError{
				Tool:    call.Name,
				Message: fmt.Sprintf("unserializable result: %v", err),
				Code:    "SERIALIZATION_ERROR",
			})
		}
		return string(data)
	}
}

// toolDefinitions exposes the registered tools in stable order.
func (a *Agent) toolDefinitions() []model.ToolDefinition {
	if len(a.tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, len(a.tools))
	for _, name := range a.ListTools() {
		t := a.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

func errorPayload(toolErr *tool.ToolError) string {
	data, err := json.Marshal(map[string]any{"error": toolErr})
	if err != nil {
		return fmt.Sprintf(`{"error":{"tool":%q,"message":"internal marshal failure"}}`, toolErr.Tool)
	}
	return string(data)
}
