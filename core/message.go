package core

import "github.com/google/uuid"

// Role identifies the speaker of a Message.
type Role string

const (
	// RoleSystem marks instruction messages synthesized for a single model call.
	RoleSystem Role = "system"
	// RoleUser marks messages originating from the end user (or a synthetic
	// background instruction acting as one).
	RoleUser Role = "user"
	// RoleAssistant marks model output, with or without tool calls.
	RoleAssistant Role = "assistant"
	// RoleTool marks the resolution of a single tool call.
	RoleTool Role = "tool"
)

// ToolCall is a function invocation requested by a model response. Each call
// is resolved exactly once into a Message with Role RoleTool carrying the
// same ID.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON object, as produced by the model
}

// Message is the unit of conversation shared between agents, the graph and
// external clients. Content may be empty for a tool-call-only assistant turn;
// ToolCallID is set only for RoleTool messages.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Author     string     `json:"author,omitempty"` // agent or tool that produced the message
}

// NewSystemMessage creates an instruction message. System messages are fed to
// a single model call and never persisted to a Conversation.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates an assistant text message authored by the named agent.
func NewAssistantMessage(author, text string) Message {
	return Message{Role: RoleAssistant, Content: text, Author: author}
}

// NewToolMessage records the resolution of the tool call with the given id.
func NewToolMessage(callID, toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID, Author: toolName}
}

// IsFinal reports whether the message is a terminal assistant turn: textual
// content present and no pending tool calls. A final message either ends the
// run or hands control to a statically wired successor.
func (m Message) IsFinal() bool {
	return m.Role == RoleAssistant && m.Content != "" && len(m.ToolCalls) == 0
}

// NewID generates a unique identifier for runs, messages and stored entities.
func NewID() string { return uuid.NewString() }
