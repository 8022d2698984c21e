package core

import "time"

// Thread is a conversational container tracking the persisted, append-only
// message history for one chat thread. Interactive runs for the same thread
// id share its Conversation; background jobs use dedicated thread ids so
// their state never mixes with user chats.
type Thread struct {
	ID           string
	Conversation *Conversation
	Created      time.Time
	Updated      time.Time
}

// NewThread creates an empty thread with the given id.
func NewThread(id string) *Thread {
	now := time.Now().UTC()
	return &Thread{ID: id, Conversation: NewConversation(), Created: now, Updated: now}
}

// ThreadStore persists threads and their evolving conversation history.
type ThreadStore interface {
	// Get returns the thread with the given id, creating it lazily.
	Get(id string) (*Thread, error)
	// Touch records activity on a thread (updates its Updated timestamp).
	Touch(id string) error
	// List returns the ids of all known threads.
	List() ([]string, error)
}
