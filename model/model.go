package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/maestro-agents/maestro/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by an agent for a
// single completion call. Instructions carry the memory-augmented system
// prompt; Messages carry the persisted conversation.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []core.Message   `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents to drive generation.
// Complete must be safe to retry on transient failure; tool calls in the
// returned message are resolved exactly once downstream, so at-least-once
// completion semantics are acceptable.
type Model interface {
	Complete(ctx context.Context, req Request) (core.Message, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Func adapts a plain function to the Model interface. Useful in tests.
type Func func(ctx context.Context, req Request) (core.Message, error)

// Complete implements Model.
func (f Func) Complete(ctx context.Context, req Request) (core.Message, error) {
	return f(ctx, req)
}

// Info implements Model.
func (f Func) Info() Info {
	return Info{Name: "func", Provider: "func", SupportsTools: true}
}

// ScriptedModel is a lightweight in-memory Model that replays a fixed
// sequence of messages, one per Complete call. It records every request it
// receives so tests can assert on instructions, history and tool exposure.
type ScriptedModel struct {
	mu       sync.Mutex
	script   []core.Message
	next     int
	requests []Request
}

// NewScriptedModel constructs a ScriptedModel replaying the given messages in order.
func NewScriptedModel(msgs ...core.Message) *ScriptedModel {
	return &ScriptedModel{script: msgs}
}

// Enqueue appends further messages to the script.
func (m *ScriptedModel) Enqueue(msgs ...core.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, msgs...)
}

// Complete implements Model; returns the next scripted message or an error
// when the script is exhausted.
func (m *ScriptedModel) Complete(_ context.Context, req Request) (core.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.next >= len(m.script) {
		return core.Message{}, fmt.Errorf("scripted model exhausted after %d calls", m.next)
	}
	msg := m.script[m.next]
	m.next++
	if msg.Role == "" {
		msg.Role = core.RoleAssistant
	}
	return msg, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "scripted", SupportsTools: true}
}

// Requests returns a copy of all requests seen so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of Complete invocations so far.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
