package core

import "sync"

// Conversation is the append-only message sequence owned by a run (or by a
// chat thread across runs). It is shared by reference across agent
// transitions within one run; no agent owns it.
//
// Contract:
//   - Append only; messages are never mutated or removed
//   - Messages returns a defensive copy
//   - Safe for concurrent access
type Conversation struct {
	mu   sync.RWMutex
	msgs []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation { return &Conversation{} }

// Append adds messages to the end of the conversation.
func (c *Conversation) Append(msgs ...Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msgs...)
}

// Messages returns a copy of the full message sequence.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.msgs) == 0 {
		return Message{}, false
	}
	return c.msgs[len(c.msgs)-1], true
}

// Len returns the number of persisted messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.msgs)
}
